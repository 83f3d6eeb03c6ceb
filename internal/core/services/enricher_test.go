package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
)

func TestEnricher_PreservesInputOrder(t *testing.T) {
	source := &mockFeatureSource{}
	e := NewEnricher(source, cache.New(10, cache.DefaultTTL), 2)

	records := []domain.TrackRecord{
		{ID: "c", Title: "Third"},
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	}
	got := e.Enrich(context.Background(), records, "Joy")

	if len(got) != 3 {
		t.Fatalf("scored %d tracks, want 3", len(got))
	}
	for i, rec := range records {
		if got[i].SpotifyID != rec.ID {
			t.Errorf("position %d: got %q, want %q", i, got[i].SpotifyID, rec.ID)
		}
		if got[i].Title != rec.Title {
			t.Errorf("position %d title: got %q, want %q", i, got[i].Title, rec.Title)
		}
		if got[i].Emotion != "Joy" {
			t.Errorf("position %d emotion: got %q", i, got[i].Emotion)
		}
	}
}

func TestEnricher_SkipsRecordsWithoutID(t *testing.T) {
	e := NewEnricher(&mockFeatureSource{}, cache.New(10, cache.DefaultTTL), 2)

	got := e.Enrich(context.Background(), []domain.TrackRecord{
		{ID: "a"}, {ID: ""}, {ID: "b"},
	}, "Joy")

	if len(got) != 2 {
		t.Fatalf("scored %d tracks, want 2", len(got))
	}
}

func TestEnricher_DuplicateIDsFetchedOnce(t *testing.T) {
	source := &mockFeatureSource{}
	e := NewEnricher(source, cache.New(10, cache.DefaultTTL), 2)

	got := e.Enrich(context.Background(), []domain.TrackRecord{
		{ID: "a"}, {ID: "a"}, {ID: "b"},
	}, "Joy")

	if len(got) != 3 {
		t.Fatalf("scored %d tracks, want one per input record", len(got))
	}
	if source.calls() != 1 {
		t.Fatalf("feature source called %d times, want 1 batch", source.calls())
	}
	batch := source.batches[0]
	if len(batch) != 2 {
		t.Fatalf("batch carried %d ids, want 2 deduplicated", len(batch))
	}
}

func TestEnricher_FailedLookupScoresZero(t *testing.T) {
	source := &mockFeatureSource{err: errors.New("features down")}
	e := NewEnricher(source, cache.New(10, cache.DefaultTTL), 2)

	got := e.Enrich(context.Background(), []domain.TrackRecord{{ID: "a"}, {ID: "b"}}, "Joy")

	if len(got) != 2 {
		t.Fatalf("scored %d tracks, want 2 (kept, not dropped)", len(got))
	}
	for _, tr := range got {
		if tr.Score != 0 {
			t.Errorf("track %s score = %v, want exactly 0", tr.SpotifyID, tr.Score)
		}
	}
}

func TestEnricher_FetchedVectorsScore(t *testing.T) {
	source := &mockFeatureSource{}
	e := NewEnricher(source, cache.New(10, cache.DefaultTTL), 2)

	got := e.Enrich(context.Background(), []domain.TrackRecord{{ID: "a"}}, "Joy")

	want := domain.FeatureVector{TrackID: "a", Valence: 0.5}.CompositeScore()
	if len(got) != 1 || got[0].Score != want {
		t.Fatalf("score: got %+v, want %v", got, want)
	}
}
