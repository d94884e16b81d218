package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gezgin/placewise/internal/models"
)

// Querier abstracts the subset of pgxpool.Pool the repositories use,
// allowing a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AssetRepository provides database access for asset documents. The full
// Asset lives in the JSONB data column; a few columns are extracted for
// the unique key and the search indexes.
type AssetRepository struct {
	q Querier
}

// NewAssetRepository constructs an AssetRepository backed by the pool.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{q: pool}
}

// NewAssetRepositoryWithQuerier constructs an AssetRepository with a
// custom Querier (for tests).
func NewAssetRepositoryWithQuerier(q Querier) *AssetRepository {
	return &AssetRepository{q: q}
}

const assetColumns = `id, place_id, data, created_at, updated_at`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var (
		id        string
		placeID   string
		dataJSON  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &placeID, &dataJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := json.Unmarshal(dataJSON, &asset); err != nil {
		return nil, fmt.Errorf("unmarshaling asset %s: %w", placeID, err)
	}
	asset.ID = id
	asset.PlaceID = placeID
	asset.CreatedAt = createdAt
	asset.UpdatedAt = updatedAt
	return &asset, nil
}

// GetByPlaceID retrieves an asset by its provider place id.
// Returns nil, nil when not found.
func (r *AssetRepository) GetByPlaceID(ctx context.Context, placeID string) (*models.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE place_id = $1`

	asset, err := scanAsset(r.q.QueryRow(ctx, q, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying asset %s: %w", placeID, err)
	}
	return asset, nil
}

// Create inserts a new asset document and returns it with the
// database-assigned id and timestamps.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	dataJSON, err := json.Marshal(asset)
	if err != nil {
		return nil, fmt.Errorf("marshaling asset %s: %w", asset.PlaceID, err)
	}

	const q = `
		INSERT INTO assets (place_id, name, formatted_address, latitude, longitude, category, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + assetColumns

	created, err := scanAsset(r.q.QueryRow(ctx, q,
		asset.PlaceID,
		asset.DisplayName,
		asset.FormattedAddress,
		asset.Latitude,
		asset.Longitude,
		string(asset.Category),
		dataJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting asset %s: %w", asset.PlaceID, err)
	}
	return created, nil
}

// UpdateAIContent attaches generated content to an existing asset by
// merging it into the JSONB document and updating the category column.
func (r *AssetRepository) UpdateAIContent(ctx context.Context, placeID string, update models.AIUpdate) (*models.Asset, error) {
	patch, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshaling AI update for %s: %w", placeID, err)
	}

	const q = `
		UPDATE assets
		SET data       = data || $2::jsonb,
		    category   = $3,
		    updated_at = NOW()
		WHERE place_id = $1
		RETURNING ` + assetColumns

	updated, err := scanAsset(r.q.QueryRow(ctx, q, placeID, patch, string(update.Category)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("asset %s not found", placeID)
		}
		return nil, fmt.Errorf("updating asset %s: %w", placeID, err)
	}
	return updated, nil
}

// Delete removes an asset by place id. Returns false when nothing was
// deleted.
func (r *AssetRepository) Delete(ctx context.Context, placeID string) (bool, error) {
	const q = `DELETE FROM assets WHERE place_id = $1`

	tag, err := r.q.Exec(ctx, q, placeID)
	if err != nil {
		return false, fmt.Errorf("deleting asset %s: %w", placeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SearchText finds stored assets whose name or address matches the query.
func (r *AssetRepository) SearchText(ctx context.Context, query string, limit int) ([]*models.Asset, error) {
	const q = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE to_tsvector('simple', name || ' ' || formatted_address)
		      @@ plainto_tsquery('simple', $1)
		ORDER BY updated_at DESC
		LIMIT $2
	`
	return r.queryAssets(ctx, q, query, limit)
}

// SearchNearby finds stored assets within radius meters of a coordinate.
// The point index operates in degrees, so the radius is converted with a
// coarse meters-per-degree factor; fine-grained distance is not a goal.
func (r *AssetRepository) SearchNearby(ctx context.Context, lat, lng float64, radiusMeters int, limit int) ([]*models.Asset, error) {
	const metersPerDegree = 111320.0
	radiusDegrees := float64(radiusMeters) / metersPerDegree

	const q = `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE point(longitude, latitude) <@ circle(point($2, $1), $3)
		ORDER BY point(longitude, latitude) <-> point($2, $1)
		LIMIT $4
	`
	return r.queryAssets(ctx, q, lat, lng, radiusDegrees, limit)
}

func (r *AssetRepository) queryAssets(ctx context.Context, q string, args ...any) ([]*models.Asset, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var out []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		out = append(out, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset rows: %w", err)
	}
	return out, nil
}
