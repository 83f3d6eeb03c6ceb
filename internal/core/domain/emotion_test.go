package domain

import "testing"

func TestNormalizeEmotion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "joy", want: "Joy"},
		{name: "already normalized", input: "Joy", want: "Joy"},
		{name: "multi word keeps rest untouched", input: "low spirits", want: "Low spirits"},
		{name: "surrounding whitespace trimmed", input: "  anger ", want: "Anger"},
		{name: "all caps stays all caps past first rune", input: "JOY", want: "JOY"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmotion(tt.input); got != tt.want {
				t.Fatalf("NormalizeEmotion(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Policy
	}{
		{name: "positive", label: "Joy", want: PolicyPositive},
		{name: "positive multi-word", label: "Tender feelings", want: PolicyPositive},
		{name: "negative", label: "Grief", want: PolicyNegative},
		{name: "negative hyphenated", label: "Ill-temper", want: PolicyNegative},
		{name: "explicit neutral", label: "Blushing", want: PolicyNeutral},
		{name: "unknown label", label: "Xyzzy", want: PolicyNeutral},
		// Case-sensitive past the first rune: a casing mismatch is neutral,
		// never a guess at intent.
		{name: "casing mismatch is neutral", label: "JOY", want: PolicyNeutral},
		{name: "empty is neutral", label: "", want: PolicyNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyEmotion(tt.label); got != tt.want {
				t.Fatalf("ClassifyEmotion(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestEmotionVocabularySizes(t *testing.T) {
	if len(positiveEmotions) != 14 {
		t.Fatalf("positive list has %d labels, want 14", len(positiveEmotions))
	}
	if len(negativeEmotions) != 17 {
		t.Fatalf("negative list has %d labels, want 17", len(negativeEmotions))
	}
	if len(neutralEmotions) != 3 {
		t.Fatalf("neutral list has %d labels, want 3", len(neutralEmotions))
	}
	if got := len(KnownEmotions()); got != 34 {
		t.Fatalf("KnownEmotions() has %d labels, want 34", got)
	}
}
