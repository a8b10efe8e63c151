// internal/handlers/item.go
package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pricetrack/backend/internal/marketplace"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/services"
	"github.com/pricetrack/backend/internal/utils"
)

// Resolver is the slice of the resolution service the item API needs.
type Resolver interface {
	GetItem(ctx context.Context, itemID, sellerID int64, platform models.Platform, includeImages bool) (*models.ItemResult, error)
	GetSeller(ctx context.Context, sellerID int64, platform models.Platform) (*models.SellerResult, error)
	GetPrices(ctx context.Context, itemID int64, platform models.Platform) ([]models.PricePoint, error)
	GetReview(ctx context.Context, itemID, sellerID int64, platform models.Platform, limit, page int, filter string) (*models.ReviewResult, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Item, string, error)
}

type ItemHandler struct {
	resolver Resolver
	searcher Searcher
}

func NewItemHandler(resolver Resolver, searcher Searcher) *ItemHandler {
	return &ItemHandler{
		resolver: resolver,
		searcher: searcher,
	}
}

// GET /v1/items/info?url=...&include=item,price,seller[,image]
// Sections absent from include are not resolved at all.
func (h *ItemHandler) GetInfoByItemURL(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		utils.BadRequestResponse(c, "Query param 'url' is required", nil)
		return
	}
	include := c.Query("include")

	ref := marketplace.ParseProductURL(rawURL)
	if !ref.Platform.Valid() || ref.ItemID <= 0 {
		utils.BadRequestResponse(c, "Unrecognized product URL", nil)
		return
	}

	data := gin.H{}
	var item *models.Item

	if strings.Contains(include, "item") {
		result, err := h.resolver.GetItem(c.Request.Context(), ref.ItemID, ref.SellerID, ref.Platform, strings.Contains(include, "image"))
		if !h.respondItemResult(c, result, err) {
			return
		}
		item = result.Item
		if item.ProductURL == "" {
			item.ProductURL = rawURL
		}
		data["item"] = item
	}

	if strings.Contains(include, "price") {
		prices, err := h.resolver.GetPrices(c.Request.Context(), ref.ItemID, ref.Platform)
		if err != nil {
			utils.InternalErrorResponse(c, "")
			return
		}
		data["prices"] = prices
	}

	if strings.Contains(include, "seller") {
		sellerID := ref.SellerID
		if sellerID == 0 && item != nil {
			sellerID = item.SellerID
		}
		if sellerID != 0 {
			result, err := h.resolver.GetSeller(c.Request.Context(), sellerID, ref.Platform)
			if err != nil {
				utils.InternalErrorResponse(c, "")
				return
			}
			// The seller section is additive: a missing or unreachable
			// seller becomes a message without failing the whole lookup.
			if result.Status == models.StatusFound {
				data["seller"] = result.Seller
			} else {
				data["seller"] = result.Message
			}
		}
	}

	utils.SuccessResponse(c, data)
}

// GET /v1/items/:itemId?platform=...&include=item,price
func (h *ItemHandler) GetItemInfo(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		utils.BadRequestResponse(c, "Invalid item id", nil)
		return
	}
	platform, ok := models.ParsePlatform(c.Query("platform"))
	if !ok {
		utils.BadRequestResponse(c, "Invalid platform", nil)
		return
	}
	include := c.DefaultQuery("include", "item")

	data := gin.H{}

	if strings.Contains(include, "item") {
		sellerID, _ := strconv.ParseInt(c.Query("sellerId"), 10, 64)
		result, err := h.resolver.GetItem(c.Request.Context(), itemID, sellerID, platform, false)
		if !h.respondItemResult(c, result, err) {
			return
		}
		data["item"] = result.Item
	}

	if strings.Contains(include, "price") {
		prices, err := h.resolver.GetPrices(c.Request.Context(), itemID, platform)
		if err != nil {
			utils.InternalErrorResponse(c, "")
			return
		}
		data["prices"] = prices
	}

	utils.SuccessResponse(c, data)
}

// GET /v1/items/seller/:sellerId?platform=...
func (h *ItemHandler) GetSellerInfo(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Param("sellerId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid seller id", nil)
		return
	}
	platform, ok := models.ParsePlatform(c.Query("platform"))
	if !ok {
		utils.BadRequestResponse(c, "Invalid platform", nil)
		return
	}

	result, err := h.resolver.GetSeller(c.Request.Context(), sellerID, platform)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	switch result.Status {
	case models.StatusNotFound:
		utils.NotFoundResponse(c, result.Message)
	case models.StatusUpstreamError:
		utils.BadGatewayResponse(c, result.Message)
	default:
		utils.SuccessResponse(c, gin.H{"seller": result.Seller})
	}
}

type reviewQueryParams struct {
	ItemID   int64  `form:"itemId" validate:"required,gt=0"`
	SellerID int64  `form:"sellerId"`
	Platform string `form:"platform" validate:"required,platform"`
	Limit    int    `form:"limit" validate:"gte=1,lte=50"`
	Page     int    `form:"page" validate:"gte=1"`
	Filter   string `form:"filter"`
}

// GET /v1/items/review?itemId=...&sellerId=...&platform=...&limit=&page=&filter=
func (h *ItemHandler) GetReviewInfo(c *gin.Context) {
	var params reviewQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid review query", err.Error())
		return
	}
	if params.Limit == 0 {
		params.Limit = 10
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if err := utils.ValidateStruct(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid review query", err.Error())
		return
	}
	platform, _ := models.ParsePlatform(params.Platform)

	result, err := h.resolver.GetReview(c.Request.Context(), params.ItemID, params.SellerID, platform, params.Limit, params.Page, params.Filter)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	switch result.Status {
	case models.StatusNotFound:
		utils.NotFoundResponse(c, result.Message)
	case models.StatusUpstreamError:
		utils.BadGatewayResponse(c, result.Message)
	default:
		utils.SuccessResponse(c, gin.H{"reviews": result.Reviews})
	}
}

type searchQueryParams struct {
	Query    string `form:"q" validate:"required,min=1"`
	Platform string `form:"platform" validate:"required,platform"`
	Limit    int    `form:"limit" validate:"gte=1,lte=50"`
}

// GET /v1/items/search?q=...&platform=...&limit=
func (h *ItemHandler) SearchItems(c *gin.Context) {
	var params searchQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid search query", err.Error())
		return
	}
	if params.Limit == 0 {
		params.Limit = 10
	}
	if err := utils.ValidateStruct(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid search query", err.Error())
		return
	}
	platform, _ := models.ParsePlatform(params.Platform)

	items, source, err := h.searcher.Search(c.Request.Context(), params.Query, platform, params.Limit)
	if err != nil {
		utils.BadGatewayResponse(c, "Online search failed")
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{"items": items}, gin.H{
		"source": source,
		"count":  len(items),
	})
}

// respondItemResult writes the error response for anything but a found item
// and reports whether the handler may continue.
func (h *ItemHandler) respondItemResult(c *gin.Context, result *models.ItemResult, err error) bool {
	if errors.Is(err, services.ErrSellerIDRequired) {
		utils.BadRequestResponse(c, err.Error(), nil)
		return false
	}
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return false
	}
	switch result.Status {
	case models.StatusNotFound:
		utils.NotFoundResponse(c, result.Message)
		return false
	case models.StatusUpstreamError:
		utils.BadGatewayResponse(c, result.Message)
		return false
	}
	return true
}
