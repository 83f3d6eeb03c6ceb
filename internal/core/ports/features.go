package ports

import (
	"context"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
)

// FeatureBatchLimit is the largest id count the external features endpoint
// accepts per request.
const FeatureBatchLimit = 50

// FeatureSource fetches audio features for up to FeatureBatchLimit track ids
// in one call. Vectors come back in arbitrary order, each bearing its track
// id; ids unknown to the source are simply absent from the result.
type FeatureSource interface {
	FetchBatch(ctx context.Context, trackIDs []string) ([]domain.FeatureVector, error)
}
