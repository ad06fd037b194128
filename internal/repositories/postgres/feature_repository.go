package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/ringmast4r/camtiles/internal/repositories"
)

type FeatureRepository struct {
	pool *pgxpool.Pool
}

var _ repositories.FeatureRepository = (*FeatureRepository)(nil)

func NewPool(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

func NewFeatureRepository(pool *pgxpool.Pool) *FeatureRepository {
	return &FeatureRepository{pool: pool}
}

// BulkCreate upserts features keyed on their CoordinateKey. Features without
// a well-formed point geometry are not representable as rows and are skipped,
// matching the file pipeline's skip policy.
func (r *FeatureRepository) BulkCreate(ctx context.Context, features []models.Feature) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO cameras (coord_key, location, properties)
        VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4)
        ON CONFLICT (coord_key) DO NOTHING`

	for _, feature := range features {
		lon, lat, ok := feature.LonLat()
		if !ok {
			continue
		}
		properties, err := json.Marshal(feature.Properties)
		if err != nil {
			return fmt.Errorf("failed to encode properties for %s: %w", models.CoordinateKey(lat, lon), err)
		}
		_, err = tx.Exec(ctx, stmt, models.CoordinateKey(lat, lon), lon, lat, properties)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *FeatureRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cameras").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FeatureRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM cameras")
	return err
}
