package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

const assetColumns = "id, name, category, location, status, created_at"

// AssetRepository persists the asset register.
type AssetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository constructs the repository.
func NewAssetRepository(db *sqlx.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// List returns every asset.
func (r *AssetRepository) List(ctx context.Context) ([]models.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM assets ORDER BY name ASC", assetColumns)
	items := make([]models.Asset, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return items, nil
}

// ListPage returns one page of assets with the total count.
func (r *AssetRepository) ListPage(ctx context.Context, filter models.RecordFilter) ([]models.Asset, int, error) {
	return pageQuery[models.Asset](ctx, r.db, assetColumns, "assets", filter)
}

// Create registers a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if !asset.CreatedAt.Valid {
		asset.CreatedAt = models.NewTimestamp(time.Now().UTC())
	}
	if asset.Status == "" {
		asset.Status = models.AssetActive
	}

	const query = `INSERT INTO assets (id, name, category, location, status, created_at) VALUES (:id, :name, :category, :location, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}
