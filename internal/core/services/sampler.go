package services

import (
	"fmt"
	"math/rand"

	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

const (
	// GenreSetSize is the target genre count per request.
	GenreSetSize = 5
	// maxUserGenres caps how many of the user's own genres participate.
	maxUserGenres = 2
)

// SampleGenres blends the user's chosen genres with random catalog genres.
// At most two user genres are kept (uniformly sampled when more are given),
// then 5 - kept random catalog genres are drawn without replacement. The
// union is deduplicated, so the result may hold fewer than five entries when
// user genres overlap the random draw; that is accepted, not corrected.
//
// The random source is explicit so tests can inject a seeded one. Returns
// ports.ErrInsufficientCatalog when the catalog cannot cover the random draw.
func SampleGenres(rng *rand.Rand, userGenres, catalog []string) ([]string, error) {
	user := userGenres
	if len(user) > maxUserGenres {
		user = sampleWithoutReplacement(rng, userGenres, maxUserGenres)
	}

	need := GenreSetSize - len(user)
	if len(catalog) < need {
		return nil, fmt.Errorf("need %d random genres, catalog has %d: %w",
			need, len(catalog), ports.ErrInsufficientCatalog)
	}
	random := sampleWithoutReplacement(rng, catalog, need)

	combined := make([]string, 0, GenreSetSize)
	seen := make(map[string]struct{}, GenreSetSize)
	for _, g := range append(user, random...) {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		combined = append(combined, g)
	}

	return combined, nil
}

// sampleWithoutReplacement draws k distinct elements from items uniformly.
func sampleWithoutReplacement(rng *rand.Rand, items []string, k int) []string {
	if k >= len(items) {
		out := make([]string, len(items))
		copy(out, items)
		return out
	}
	picked := make([]string, 0, k)
	for _, i := range rng.Perm(len(items))[:k] {
		picked = append(picked, items[i])
	}
	return picked
}
