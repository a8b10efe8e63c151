// internal/repository/item_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pricetrack/backend/internal/models"
)

// ItemRepository reads the primary store the crawler writes into. This layer
// never writes items or prices; refreshes happen upstream of it.
type ItemRepository interface {
	// FindItem returns (nil, nil) when no record exists for (itemID, platform).
	FindItem(ctx context.Context, itemID int64, platform models.Platform) (*models.Item, error)

	// PriceHistory returns crawled price points in chronological order.
	PriceHistory(ctx context.Context, itemID int64, platform models.Platform) ([]models.PricePoint, error)

	// SearchByName is the cheap substring tier of the search fallback.
	SearchByName(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, error)

	// SearchFullText is the text-index tier, ranking exact name matches first.
	SearchFullText(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, error)
}

type GormItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindItem(ctx context.Context, itemID int64, platform models.Platform) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ? AND platform = ?", itemID, platform).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item %d/%s: %w", itemID, platform, err)
	}
	// Crawler bookkeeping stays internal.
	item.Expired = 0
	return &item, nil
}

func (r *GormItemRepository) PriceHistory(ctx context.Context, itemID int64, platform models.Platform) ([]models.PricePoint, error) {
	var points []models.PricePoint
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND platform = ?", itemID, platform).
		Order("tracked_at ASC").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("price history %d/%s: %w", itemID, platform, err)
	}
	return points, nil
}

func (r *GormItemRepository) SearchByName(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("platform = ? AND name ILIKE ?", platform, "%"+query+"%").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search by name %q: %w", query, err)
	}
	return items, nil
}

func (r *GormItemRepository) SearchFullText(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Where("to_tsvector('simple', name) @@ websearch_to_tsquery('simple', ?)", query).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "(lower(name) = lower(?))::int DESC, total_review DESC",
			Vars: []interface{}{query},
		}}).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("full-text search %q: %w", query, err)
	}
	return items, nil
}
