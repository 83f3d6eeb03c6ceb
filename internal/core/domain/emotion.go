package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy is the selection/sort behaviour an emotion maps to.
type Policy int

const (
	// PolicyNeutral selects randomly and leaves results unsorted.
	PolicyNeutral Policy = iota
	// PolicyPositive prefers ascending popularity and ascending score.
	PolicyPositive
	// PolicyNegative prefers descending popularity and descending score.
	PolicyNegative
)

func (p Policy) String() string {
	switch p {
	case PolicyPositive:
		return "positive"
	case PolicyNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// positiveEmotions drive the ascending-popularity selection policy.
var positiveEmotions = []string{
	"Joy", "Love", "Devotion", "Tender feelings", "High spirits", "Pride",
	"Patience", "Affirmation", "Surprise", "Self-attention", "Modesty",
	"Reflection", "Meditation", "Determination",
}

// negativeEmotions drive the descending-popularity selection policy.
var negativeEmotions = []string{
	"Suffering", "Weeping", "Low spirits", "Anxiety", "Fear", "Grief",
	"Dejection", "Despair", "Anger", "Hatred", "Disdain", "Contempt",
	"Disgust", "Guilt", "Helplessness", "Ill-temper", "Sulkiness",
}

// neutralEmotions are explicitly neutral; any label outside the three lists
// is treated as neutral too.
var neutralEmotions = []string{
	"Negation", "Shyness", "Blushing",
}

var emotionPolicies = buildEmotionPolicies()

func buildEmotionPolicies() map[string]Policy {
	m := make(map[string]Policy, len(positiveEmotions)+len(negativeEmotions)+len(neutralEmotions))
	for _, e := range positiveEmotions {
		m[e] = PolicyPositive
	}
	for _, e := range negativeEmotions {
		m[e] = PolicyNegative
	}
	for _, e := range neutralEmotions {
		m[e] = PolicyNeutral
	}
	return m
}

// NormalizeEmotion upper-cases the first rune of the label, leaving the rest
// untouched. Callers must normalize before classifying or persisting an
// emotion; lookups are case-sensitive past the first rune.
func NormalizeEmotion(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(r)) + label[size:]
}

// ClassifyEmotion maps a normalized emotion label to its policy. Labels not
// present in any list classify as neutral, including casing mismatches beyond
// the first-letter normalization.
func ClassifyEmotion(label string) Policy {
	if p, ok := emotionPolicies[label]; ok {
		return p
	}
	return PolicyNeutral
}

// KnownEmotions returns every label in the closed vocabulary, positives
// first. Used by the emotion refiner prompt.
func KnownEmotions() []string {
	out := make([]string, 0, len(positiveEmotions)+len(negativeEmotions)+len(neutralEmotions))
	out = append(out, positiveEmotions...)
	out = append(out, negativeEmotions...)
	out = append(out, neutralEmotions...)
	return out
}
