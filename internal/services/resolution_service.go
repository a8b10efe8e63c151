// internal/services/resolution_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/pricetrack/backend/internal/cache"
	"github.com/pricetrack/backend/internal/marketplace"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

var (
	// ErrSellerIDRequired is the one client error in the resolution core:
	// Shopee's item endpoint is keyed on (itemid, shopid), so resolving a
	// Shopee item that is not in the store needs a seller id from the caller.
	ErrSellerIDRequired = errors.New("seller id is required along with Shopee items")

	ErrUnknownPlatform = errors.New("unknown platform")
)

// noSellerMessage answers seller lookups for delisted items (sellerId -1).
const noSellerMessage = "No seller selling this item"

// ResolutionService answers entity lookups from the freshest acceptable
// source: the TTL cache first, then the primary store, then the matching
// marketplace adapter. Cache problems never fail a request; they degrade it
// to the slower path.
type ResolutionService struct {
	repo     repository.ItemRepository
	cache    cache.Cache
	adapters *marketplace.Registry
	cacheTTL time.Duration
	log      *logrus.Logger
	group    singleflight.Group
}

func NewResolutionService(repo repository.ItemRepository, c cache.Cache, adapters *marketplace.Registry, cacheTTL time.Duration, log *logrus.Logger) *ResolutionService {
	if cacheTTL == 0 {
		cacheTTL = cache.DefaultTTL
	}
	return &ResolutionService{
		repo:     repo,
		cache:    c,
		adapters: adapters,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Cache key formats are shared with any warm cache written by previous
// deployments and must not change.
func itemCacheKey(itemID int64, platform models.Platform, includeImages bool) string {
	key := fmt.Sprintf("item-%d-%s", itemID, platform)
	if includeImages {
		key += "-include=image"
	}
	return key
}

func sellerCacheKey(sellerID int64, platform models.Platform) string {
	return fmt.Sprintf("seller-%d-%s", sellerID, platform)
}

func reviewCacheKey(itemID int64, platform models.Platform, limit, page int, filter string) string {
	return fmt.Sprintf("review-%d-%s-%d-%d-%s", itemID, platform, limit, page, filter)
}

// GetItem resolves one item. Preview images only exist upstream, so
// includeImages skips the store entirely; otherwise the store satisfies the
// lookup unless the crawler's record is missing or, for Tiki, lacks a seller.
func (s *ResolutionService) GetItem(ctx context.Context, itemID, sellerID int64, platform models.Platform, includeImages bool) (*models.ItemResult, error) {
	adapter, ok := s.adapters.Get(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	key := itemCacheKey(itemID, platform, includeImages)
	var cached models.Item
	if s.cacheGet(ctx, key, &cached) {
		return models.FoundItem(&cached), nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.resolveItem(ctx, adapter, itemID, sellerID, platform, includeImages, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ItemResult), nil
}

func (s *ResolutionService) resolveItem(ctx context.Context, adapter marketplace.Adapter, itemID, sellerID int64, platform models.Platform, includeImages bool, key string) (*models.ItemResult, error) {
	var item *models.Item

	// The store never carries preview images, so an image request goes
	// straight upstream.
	if !includeImages {
		stored, err := s.repo.FindItem(ctx, itemID, platform)
		if err != nil {
			return nil, err
		}
		item = stored
	}

	needUpstream := item == nil
	if platform == models.PlatformTiki && item != nil && item.SellerID == 0 {
		// The crawler wrote an incomplete record; only the product endpoint
		// knows the seller.
		needUpstream = true
	}

	if needUpstream {
		if platform == models.PlatformShopee && sellerID <= 0 {
			return nil, ErrSellerIDRequired
		}

		fetched, err := adapter.FetchItem(ctx, itemID, sellerID, includeImages)
		if errors.Is(err, marketplace.ErrNotFound) {
			return models.ItemNotFound(fmt.Sprintf("Not found item id %d on %s", itemID, platform)), nil
		}
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"item_id":  itemID,
				"platform": platform,
			}).Warn("item fetch failed")
			return models.ItemUpstreamError(err.Error()), nil
		}
		item = fetched
	}

	s.cachePut(ctx, key, item)
	return models.FoundItem(item), nil
}

// GetSeller resolves one seller, always live or cached, never from the store.
func (s *ResolutionService) GetSeller(ctx context.Context, sellerID int64, platform models.Platform) (*models.SellerResult, error) {
	if sellerID == models.NoSellerID {
		return models.SellerNotFound(noSellerMessage), nil
	}

	adapter, ok := s.adapters.Get(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	key := sellerCacheKey(sellerID, platform)
	var cached models.Seller
	if s.cacheGet(ctx, key, &cached) {
		return models.FoundSeller(&cached), nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		seller, err := adapter.FetchSeller(ctx, sellerID)
		if errors.Is(err, marketplace.ErrNotFound) {
			return models.SellerNotFound(fmt.Sprintf("Not found seller id %d", sellerID)), nil
		}
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"seller_id": sellerID,
				"platform":  platform,
			}).Warn("seller fetch failed")
			return models.SellerUpstreamError(err.Error()), nil
		}

		s.cachePut(ctx, key, seller)
		return models.FoundSeller(seller), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.SellerResult), nil
}

// GetPrices is a pure store read; price history only exists once the crawler
// has persisted it, so there is nothing to fetch or cache.
func (s *ResolutionService) GetPrices(ctx context.Context, itemID int64, platform models.Platform) ([]models.PricePoint, error) {
	if !platform.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return s.repo.PriceHistory(ctx, itemID, platform)
}

// GetReview resolves one page of reviews. Every input participates in the
// cache key since each changes the result shape.
func (s *ResolutionService) GetReview(ctx context.Context, itemID, sellerID int64, platform models.Platform, limit, page int, filter string) (*models.ReviewResult, error) {
	adapter, ok := s.adapters.Get(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	key := reviewCacheKey(itemID, platform, limit, page, filter)
	var cached models.ReviewSet
	if s.cacheGet(ctx, key, &cached) {
		return models.FoundReviews(&cached), nil
	}

	parsed := ParseReviewFilter(filter)

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		set, err := adapter.FetchReviews(ctx, marketplace.ReviewQuery{
			ItemID:   itemID,
			SellerID: sellerID,
			Limit:    limit,
			Page:     page,
			Star:     parsed.Star,
			HasMedia: parsed.HasMedia,
		})
		if errors.Is(err, marketplace.ErrNotFound) {
			return models.ReviewsNotFound(fmt.Sprintf("Not found review of item id %d", itemID)), nil
		}
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"item_id":  itemID,
				"platform": platform,
			}).Warn("review fetch failed")
			return models.ReviewsUpstreamError(err.Error()), nil
		}

		set.Filter = parsed
		s.cachePut(ctx, key, set)
		return models.FoundReviews(set), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ReviewResult), nil
}

// ParseReviewFilter reads the filter mini-language: "star:<1-5>" or
// "has_media", one criterion at a time. Anything else means no filter.
func ParseReviewFilter(filter string) models.ReviewFilter {
	var parsed models.ReviewFilter
	if filter == "" {
		return parsed
	}

	if idx := strings.Index(filter, "star:"); idx >= 0 {
		star, err := parseStar(filter[idx+len("star:"):])
		if err == nil {
			parsed.Star = star
		}
		return parsed
	}
	if strings.Contains(filter, "has_media") {
		parsed.HasMedia = true
	}
	return parsed
}

func parseStar(s string) (int, error) {
	if len(s) == 0 || s[0] < '1' || s[0] > '5' {
		return 0, fmt.Errorf("star out of range: %q", s)
	}
	if len(s) > 1 && s[1] >= '0' && s[1] <= '9' {
		return 0, fmt.Errorf("star out of range: %q", s)
	}
	return int(s[0] - '0'), nil
}

// cacheGet treats any cache failure as a miss.
func (s *ResolutionService) cacheGet(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache get failed, treating as miss")
		return false
	}
	return found
}

// cachePut writes back a resolved entity. The write's failure is logged and
// deliberately ignored; losing it only means the next reader re-resolves.
func (s *ResolutionService) cachePut(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}
