package repositories

import (
	"context"

	"github.com/ringmast4r/camtiles/internal/models"
)

// FeatureRepository mirrors the merged canonical dataset into a queryable
// store. Implementations key rows on CoordinateKey, matching the file-level
// dedup boundary.
type FeatureRepository interface {
	BulkCreate(ctx context.Context, features []models.Feature) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
