// internal/marketplace/marketplace.go

// Package marketplace translates the raw HTTP APIs of the supported
// e-commerce platforms into the canonical entity shapes. Adapters are
// stateless translators; caching and store fallback live in the resolution
// service on top of them.
package marketplace

import (
	"context"
	"errors"

	"github.com/pricetrack/backend/internal/models"
)

// ErrNotFound reports that the marketplace has no entity for the given id(s).
// Callers check it with errors.Is and turn it into a not-found result rather
// than a failure.
var ErrNotFound = errors.New("not found on marketplace")

// ReviewQuery addresses one page of reviews. Star and HasMedia mirror the
// parsed review filter; at most one of them is set.
type ReviewQuery struct {
	ItemID   int64
	SellerID int64
	Limit    int
	Page     int // 1-based
	Star     int // 1-5, 0 means off
	HasMedia bool
}

// Adapter is implemented once per marketplace.
type Adapter interface {
	Platform() models.Platform

	// FetchItem resolves an item from the marketplace's product endpoint.
	// sellerID is required by Shopee and ignored by Tiki. When includeImages
	// is set the ordered preview image list is attached to the item.
	FetchItem(ctx context.Context, itemID, sellerID int64, includeImages bool) (*models.Item, error)

	FetchSeller(ctx context.Context, sellerID int64) (*models.Seller, error)

	FetchReviews(ctx context.Context, query ReviewQuery) (*models.ReviewSet, error)

	// Search runs the marketplace's online item search and projects the
	// results into Item summaries.
	Search(ctx context.Context, query string, limit int) ([]models.Item, error)
}

// Registry holds the configured adapters keyed by platform.
type Registry struct {
	adapters map[models.Platform]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[models.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

func (r *Registry) Get(platform models.Platform) (Adapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}
