// internal/services/search_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pricetrack/backend/internal/marketplace"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// Search result sources, most local first.
const (
	SearchSourceName   = "store:name"
	SearchSourceText   = "store:text"
	SearchSourceOnline = "online"
)

// SearchService finds items for a free-text query with a three-tier
// degrade-to-network strategy: substring match on stored names, then the
// store's text index, then the marketplace's own search. Results are not
// cached; query strings rarely repeat.
type SearchService struct {
	repo     repository.ItemRepository
	adapters *marketplace.Registry
	log      *logrus.Logger
}

func NewSearchService(repo repository.ItemRepository, adapters *marketplace.Registry, log *logrus.Logger) *SearchService {
	return &SearchService{
		repo:     repo,
		adapters: adapters,
		log:      log,
	}
}

// Search returns the matched items and which tier produced them. A store
// tier that fails is logged and skipped; the online tier's errors are the
// caller's problem.
func (s *SearchService) Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, string, error) {
	adapter, ok := s.adapters.Get(platform)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	items, err := s.repo.SearchByName(ctx, query, platform, limit)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("name search failed")
	} else if len(items) > 0 {
		return items, SearchSourceName, nil
	}

	items, err = s.repo.SearchFullText(ctx, query, platform, limit)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("full-text search failed")
	} else if len(items) > 0 {
		return items, SearchSourceText, nil
	}

	items, err = adapter.Search(ctx, query, limit)
	if err != nil {
		return nil, "", fmt.Errorf("online search %q on %s: %w", query, platform, err)
	}
	return items, SearchSourceOnline, nil
}
