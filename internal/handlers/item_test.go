// internal/handlers/item_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/services"
)

type stubResolver struct {
	itemResult   *models.ItemResult
	itemErr      error
	sellerResult *models.SellerResult
	sellerErr    error
	prices       []models.PricePoint
	reviewResult *models.ReviewResult

	lastItemID        int64
	lastSellerID      int64
	lastIncludeImages bool
	lastFilter        string
	lastLimit         int
	lastPage          int
}

func (s *stubResolver) GetItem(ctx context.Context, itemID, sellerID int64, platform models.Platform, includeImages bool) (*models.ItemResult, error) {
	s.lastItemID = itemID
	s.lastSellerID = sellerID
	s.lastIncludeImages = includeImages
	return s.itemResult, s.itemErr
}

func (s *stubResolver) GetSeller(ctx context.Context, sellerID int64, platform models.Platform) (*models.SellerResult, error) {
	s.lastSellerID = sellerID
	return s.sellerResult, s.sellerErr
}

func (s *stubResolver) GetPrices(ctx context.Context, itemID int64, platform models.Platform) ([]models.PricePoint, error) {
	return s.prices, nil
}

func (s *stubResolver) GetReview(ctx context.Context, itemID, sellerID int64, platform models.Platform, limit, page int, filter string) (*models.ReviewResult, error) {
	s.lastItemID = itemID
	s.lastSellerID = sellerID
	s.lastLimit = limit
	s.lastPage = page
	s.lastFilter = filter
	return s.reviewResult, nil
}

type stubSearcher struct {
	items  []models.Item
	source string
	err    error
}

func (s *stubSearcher) Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, string, error) {
	return s.items, s.source, s.err
}

func newTestRouter(resolver Resolver, searcher Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewItemHandler(resolver, searcher)

	items := router.Group("/v1/items")
	items.GET("/info", handler.GetInfoByItemURL)
	items.GET("/search", handler.SearchItems)
	items.GET("/review", handler.GetReviewInfo)
	items.GET("/seller/:sellerId", handler.GetSellerInfo)
	items.GET("/:itemId", handler.GetItemInfo)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func foundTestItem() *models.ItemResult {
	return models.FoundItem(&models.Item{
		ID:           70771651,
		Platform:     models.PlatformTiki,
		Name:         "iPhone 12",
		SellerID:     40395,
		CurrentPrice: 30990000,
	})
}

func TestGetInfoByItemURL(t *testing.T) {
	resolver := &stubResolver{
		itemResult:   foundTestItem(),
		sellerResult: models.FoundSeller(&models.Seller{ID: 40395, Name: "Some Shop"}),
		prices:       []models.PricePoint{{ItemID: 70771651, Price: 30990000}},
	}
	router := newTestRouter(resolver, &stubSearcher{})

	rec, body := doRequest(t, router,
		"/v1/items/info?url=https://tiki.vn/iphone-12-p70771651.html&include=item,price,seller")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	item := data["item"].(map[string]interface{})
	assert.Equal(t, "iPhone 12", item["name"])
	assert.Len(t, data["prices"], 1)

	seller := data["seller"].(map[string]interface{})
	assert.Equal(t, "Some Shop", seller["name"])
	assert.Equal(t, int64(40395), resolver.lastSellerID)
}

func TestGetInfoByItemURLSellerMessage(t *testing.T) {
	// A delisted seller degrades to a message instead of failing the lookup.
	resolver := &stubResolver{
		itemResult:   models.FoundItem(&models.Item{ID: 70771651, SellerID: models.NoSellerID}),
		sellerResult: models.SellerNotFound("No seller selling this item"),
	}
	router := newTestRouter(resolver, &stubSearcher{})

	rec, body := doRequest(t, router,
		"/v1/items/info?url=https://tiki.vn/iphone-12-p70771651.html&include=item,seller")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "No seller selling this item", data["seller"])
}

func TestGetInfoByItemURLIncludeImage(t *testing.T) {
	resolver := &stubResolver{itemResult: foundTestItem()}
	router := newTestRouter(resolver, &stubSearcher{})

	rec, _ := doRequest(t, router,
		"/v1/items/info?url=https://shopee.vn/product/9918567180/283338743&include=item,image")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resolver.lastIncludeImages)
	assert.Equal(t, int64(283338743), resolver.lastItemID)
}

func TestGetInfoByItemURLBadURL(t *testing.T) {
	router := newTestRouter(&stubResolver{}, &stubSearcher{})

	rec, body := doRequest(t, router, "/v1/items/info?url=https://example.com/whatever")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetInfoByItemURLMissingURL(t *testing.T) {
	router := newTestRouter(&stubResolver{}, &stubSearcher{})

	rec, _ := doRequest(t, router, "/v1/items/info")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetItemInfoStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		result     *models.ItemResult
		err        error
		wantStatus int
		wantCode   string
	}{
		{"found", foundTestItem(), nil, http.StatusOK, ""},
		{"not found", models.ItemNotFound("Not found item id 1 on tiki"), nil, http.StatusNotFound, "NOT_FOUND"},
		{"upstream error", models.ItemUpstreamError("tiki responded 503"), nil, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"seller id required", nil, services.ErrSellerIDRequired, http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubResolver{itemResult: tt.result, itemErr: tt.err}, &stubSearcher{})

			rec, body := doRequest(t, router, "/v1/items/70771651?platform=tiki")
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				apiErr := body["error"].(map[string]interface{})
				assert.Equal(t, tt.wantCode, apiErr["code"])
			}
		})
	}
}

func TestGetItemInfoInvalidParams(t *testing.T) {
	router := newTestRouter(&stubResolver{}, &stubSearcher{})

	rec, _ := doRequest(t, router, "/v1/items/abc?platform=tiki")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, "/v1/items/70771651?platform=lazada")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSellerInfoStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		result     *models.SellerResult
		wantStatus int
	}{
		{"found", models.FoundSeller(&models.Seller{ID: 40395}), http.StatusOK},
		{"not found", models.SellerNotFound("Not found seller id 40395"), http.StatusNotFound},
		{"upstream error", models.SellerUpstreamError("tiki responded 503"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubResolver{sellerResult: tt.result}, &stubSearcher{})

			rec, _ := doRequest(t, router, "/v1/items/seller/40395?platform=tiki")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetReviewInfo(t *testing.T) {
	resolver := &stubResolver{
		reviewResult: models.FoundReviews(&models.ReviewSet{TotalReview: 540, Count: 1}),
	}
	router := newTestRouter(resolver, &stubSearcher{})

	rec, body := doRequest(t, router,
		"/v1/items/review?itemId=283338743&sellerId=9918567180&platform=shopee&limit=20&page=3&filter=star:4")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(283338743), resolver.lastItemID)
	assert.Equal(t, int64(9918567180), resolver.lastSellerID)
	assert.Equal(t, 20, resolver.lastLimit)
	assert.Equal(t, 3, resolver.lastPage)
	assert.Equal(t, "star:4", resolver.lastFilter)

	data := body["data"].(map[string]interface{})
	reviews := data["reviews"].(map[string]interface{})
	assert.Equal(t, float64(540), reviews["totalReview"])
}

func TestGetReviewInfoDefaults(t *testing.T) {
	resolver := &stubResolver{
		reviewResult: models.FoundReviews(&models.ReviewSet{}),
	}
	router := newTestRouter(resolver, &stubSearcher{})

	rec, _ := doRequest(t, router, "/v1/items/review?itemId=1&platform=tiki")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, resolver.lastLimit)
	assert.Equal(t, 1, resolver.lastPage)
}

func TestGetReviewInfoValidation(t *testing.T) {
	router := newTestRouter(&stubResolver{}, &stubSearcher{})

	// Missing item id.
	rec, _ := doRequest(t, router, "/v1/items/review?platform=tiki")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Limit beyond the cap.
	rec, _ = doRequest(t, router, "/v1/items/review?itemId=1&platform=tiki&limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchItems(t *testing.T) {
	searcher := &stubSearcher{
		items:  []models.Item{{ID: 1, Name: "iphone 12"}},
		source: "store:name",
	}
	router := newTestRouter(&stubResolver{}, searcher)

	rec, body := doRequest(t, router, "/v1/items/search?q=iphone&platform=tiki")

	assert.Equal(t, http.StatusOK, rec.Code)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "store:name", meta["source"])
	assert.Equal(t, float64(1), meta["count"])
}

func TestSearchItemsOnlineFailure(t *testing.T) {
	searcher := &stubSearcher{err: assert.AnError}
	router := newTestRouter(&stubResolver{}, searcher)

	rec, body := doRequest(t, router, "/v1/items/search?q=iphone&platform=tiki")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	apiErr := body["error"].(map[string]interface{})
	assert.Equal(t, "UPSTREAM_ERROR", apiErr["code"])
}
