package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
)

// mockFeatureSource records every batch it receives. Safe for concurrent use
// because the fetcher fans batches out over workers.
type mockFeatureSource struct {
	mu      sync.Mutex
	batches [][]string
	err     error
	// missing ids are omitted from responses even on success.
	missing map[string]bool
}

func (m *mockFeatureSource) FetchBatch(_ context.Context, trackIDs []string) ([]domain.FeatureVector, error) {
	m.mu.Lock()
	batch := make([]string, len(trackIDs))
	copy(batch, trackIDs)
	m.batches = append(m.batches, batch)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	vectors := make([]domain.FeatureVector, 0, len(trackIDs))
	for _, id := range trackIDs {
		if m.missing[id] {
			continue
		}
		vectors = append(vectors, domain.FeatureVector{TrackID: id, Valence: 0.5})
	}
	return vectors, nil
}

func (m *mockFeatureSource) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("track-%03d", i)
	}
	return ids
}

func TestFeatureFetcher_BatchCount(t *testing.T) {
	tests := []struct {
		name      string
		idCount   int
		wantCalls int
	}{
		{name: "under one batch", idCount: 10, wantCalls: 1},
		{name: "exactly one batch", idCount: 50, wantCalls: 1},
		{name: "one over", idCount: 51, wantCalls: 2},
		{name: "several batches", idCount: 120, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockFeatureSource{}
			f := NewFeatureFetcher(source, cache.New(1000, time.Minute), 4)

			result := f.Fetch(context.Background(), makeIDs(tt.idCount))

			if got := source.calls(); got != tt.wantCalls {
				t.Fatalf("issued %d batch calls, want %d", got, tt.wantCalls)
			}
			if len(result) != tt.idCount {
				t.Fatalf("result has %d entries, want exactly one per requested id (%d)", len(result), tt.idCount)
			}
		})
	}
}

func TestFeatureFetcher_SecondFetchHitsCache(t *testing.T) {
	source := &mockFeatureSource{}
	f := NewFeatureFetcher(source, cache.New(1000, time.Minute), 2)
	ids := makeIDs(5)

	f.Fetch(context.Background(), ids)
	if got := source.calls(); got != 1 {
		t.Fatalf("first fetch issued %d calls, want 1", got)
	}

	result := f.Fetch(context.Background(), ids)
	if got := source.calls(); got != 1 {
		t.Fatalf("second fetch issued network calls: %d total, want 1", got)
	}
	for _, id := range ids {
		if !result[id].Fetched {
			t.Fatalf("cached vector for %s lost its Fetched flag", id)
		}
	}
}

func TestFeatureFetcher_FailedBatchAbsorbedAsEmptyVectors(t *testing.T) {
	source := &mockFeatureSource{err: errors.New("connection reset")}
	f := NewFeatureFetcher(source, cache.New(1000, time.Minute), 2)
	ids := makeIDs(50)

	result := f.Fetch(context.Background(), ids)

	if len(result) != len(ids) {
		t.Fatalf("result has %d entries, want %d", len(result), len(ids))
	}
	for _, id := range ids {
		fv, ok := result[id]
		if !ok {
			t.Fatalf("missing entry for %s", id)
		}
		if fv.Fetched {
			t.Fatalf("failed batch produced a fetched vector for %s", id)
		}
	}
}

func TestFeatureFetcher_FailureNotCached(t *testing.T) {
	source := &mockFeatureSource{err: errors.New("timeout")}
	c := cache.New(1000, time.Minute)
	f := NewFeatureFetcher(source, c, 2)
	ids := makeIDs(3)

	f.Fetch(context.Background(), ids)

	// Once the source recovers, the same ids must be retried, not served
	// empty from cache.
	source.mu.Lock()
	source.err = nil
	source.mu.Unlock()

	result := f.Fetch(context.Background(), ids)
	for _, id := range ids {
		if !result[id].Fetched {
			t.Fatalf("recovered source not consulted for %s", id)
		}
	}
}

func TestFeatureFetcher_IDsMissingFromResponse(t *testing.T) {
	source := &mockFeatureSource{missing: map[string]bool{"track-001": true}}
	f := NewFeatureFetcher(source, cache.New(1000, time.Minute), 2)

	result := f.Fetch(context.Background(), makeIDs(3))

	if result["track-001"].Fetched {
		t.Fatalf("vector for id absent from response must stay unfetched")
	}
	if !result["track-000"].Fetched || !result["track-002"].Fetched {
		t.Fatalf("present ids must come back fetched")
	}
}
