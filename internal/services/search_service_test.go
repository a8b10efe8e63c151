// internal/services/search_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricetrack/backend/internal/marketplace"
	"github.com/pricetrack/backend/internal/models"
)

func newTestSearchService(repo *fakeRepo, adapters ...marketplace.Adapter) *SearchService {
	return NewSearchService(repo, marketplace.NewRegistry(adapters...), testLogger())
}

func TestSearchNameTierWins(t *testing.T) {
	repo := &fakeRepo{nameHits: []models.Item{{ID: 1, Name: "iphone 12"}}}
	adapter := &fakeAdapter{platform: models.PlatformTiki}
	svc := newTestSearchService(repo, adapter)

	items, source, err := svc.Search(context.Background(), "iphone", models.PlatformTiki, 10)
	require.NoError(t, err)

	assert.Equal(t, SearchSourceName, source)
	assert.Len(t, items, 1)
	assert.Equal(t, 0, repo.textCalls)
	assert.Equal(t, 0, adapter.searchCalls)
}

func TestSearchFallsBackToFullText(t *testing.T) {
	repo := &fakeRepo{textHits: []models.Item{{ID: 2, Name: "iphone 12 pro"}}}
	adapter := &fakeAdapter{platform: models.PlatformTiki}
	svc := newTestSearchService(repo, adapter)

	items, source, err := svc.Search(context.Background(), "iphone pro", models.PlatformTiki, 10)
	require.NoError(t, err)

	assert.Equal(t, SearchSourceText, source)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.nameCalls)
	assert.Equal(t, 0, adapter.searchCalls)
}

func TestSearchFallsBackToOnline(t *testing.T) {
	repo := &fakeRepo{}
	adapter := &fakeAdapter{
		platform: models.PlatformShopee,
		found:    []models.Item{{ID: 283338743, Name: "tai nghe bluetooth"}},
	}
	svc := newTestSearchService(repo, adapter)

	items, source, err := svc.Search(context.Background(), "tai nghe", models.PlatformShopee, 10)
	require.NoError(t, err)

	assert.Equal(t, SearchSourceOnline, source)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, repo.nameCalls)
	assert.Equal(t, 1, repo.textCalls)
}

func TestSearchStoreErrorsAreSkipped(t *testing.T) {
	repo := &fakeRepo{
		nameErr: errors.New("relation items does not exist"),
		textErr: errors.New("relation items does not exist"),
	}
	adapter := &fakeAdapter{
		platform: models.PlatformTiki,
		found:    []models.Item{{ID: 3}},
	}
	svc := newTestSearchService(repo, adapter)

	items, source, err := svc.Search(context.Background(), "anything", models.PlatformTiki, 10)
	require.NoError(t, err)

	assert.Equal(t, SearchSourceOnline, source)
	assert.Len(t, items, 1)
}

func TestSearchOnlineErrorIsReturned(t *testing.T) {
	repo := &fakeRepo{}
	online := errors.New("shopee responded 429")
	adapter := &fakeAdapter{platform: models.PlatformShopee, searchErr: online}
	svc := newTestSearchService(repo, adapter)

	_, _, err := svc.Search(context.Background(), "tai nghe", models.PlatformShopee, 10)
	assert.ErrorIs(t, err, online)
}

func TestSearchUnknownPlatform(t *testing.T) {
	svc := newTestSearchService(&fakeRepo{})

	_, _, err := svc.Search(context.Background(), "x", "lazada", 10)
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}
