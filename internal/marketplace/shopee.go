// internal/marketplace/shopee.go
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pricetrack/backend/internal/models"
)

// shopeePriceUnit converts Shopee's fixed-point price format to currency
// units: price_min of 1500000000 means 15000.
const shopeePriceUnit = 100000

// ShopeeAdapter talks to Shopee's item, shop-detail, ratings and search
// endpoints. The item endpoint is keyed on (itemid, shopid), so a seller id
// is mandatory for item fetches. Image fields are relative paths that get
// prefixed with the marketplace's file server.
type ShopeeAdapter struct {
	client        *resty.Client
	limiter       *rate.Limiter
	baseURL       string
	fileServerURL string
	log           *logrus.Logger
}

func NewShopeeAdapter(cfg Config, log *logrus.Logger) *ShopeeAdapter {
	cfg = cfg.withDefaults()
	return &ShopeeAdapter{
		client:        newClient(cfg.Timeout, shopeeHeaders()),
		limiter:       newLimiter(cfg),
		baseURL:       strings.TrimSuffix(cfg.ShopeeBaseURL, "/"),
		fileServerURL: cfg.ShopeeFileServerURL,
		log:           log,
	}
}

func (a *ShopeeAdapter) Platform() models.Platform { return models.PlatformShopee }

func (a *ShopeeAdapter) get(ctx context.Context, url string) (*resty.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := a.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("shopee request failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("shopee responded 404: %w", ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("shopee responded %d", resp.StatusCode())
	}
	return resp, nil
}

func (a *ShopeeAdapter) fileURL(path string) string {
	return a.fileServerURL + path
}

type shopeeCategory struct {
	CatID int64 `json:"catid"`
	NoSub bool  `json:"no_sub"`
}

type shopeeItemResponse struct {
	Item *struct {
		ItemID     int64    `json:"itemid"`
		ShopID     int64    `json:"shopid"`
		Name       string   `json:"name"`
		PriceMin   int64    `json:"price_min"`
		Image      string   `json:"image"`
		Images     []string `json:"images"`
		CmtCount   int64    `json:"cmt_count"`
		ItemRating struct {
			RatingStar float64 `json:"rating_star"`
		} `json:"item_rating"`
		Categories []shopeeCategory `json:"categories"`
	} `json:"item"`
}

func (a *ShopeeAdapter) FetchItem(ctx context.Context, itemID, sellerID int64, includeImages bool) (*models.Item, error) {
	url := a.baseURL + pathItemShopee
	url = strings.ReplaceAll(url, "{item_id}", strconv.FormatInt(itemID, 10))
	url = strings.ReplaceAll(url, "{seller_id}", strconv.FormatInt(sellerID, 10))

	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload shopeeItemResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("shopee item payload: %w", err)
	}
	if payload.Item == nil {
		return nil, fmt.Errorf("shopee item %d: %w", itemID, ErrNotFound)
	}

	raw := payload.Item
	item := &models.Item{
		ID:           raw.ItemID,
		Platform:     models.PlatformShopee,
		Name:         raw.Name,
		SellerID:     raw.ShopID,
		CategoryID:   leafCategory(raw.Categories),
		Rating:       raw.ItemRating.RatingStar,
		TotalReview:  raw.CmtCount,
		ThumbnailURL: a.fileURL(raw.Image),
		ProductURL:   fmt.Sprintf("https://shopee.vn/product/%d/%d", raw.ShopID, raw.ItemID),
		CurrentPrice: raw.PriceMin / shopeePriceUnit,
	}
	if includeImages {
		images := make([]string, 0, len(raw.Images))
		for _, img := range raw.Images {
			images = append(images, a.fileURL(img))
		}
		item.PreviewImages = images
	}

	return item, nil
}

// leafCategory picks the most specific entry of the item's category chain:
// the one flagged as having no sub-categories, or the first entry when
// nothing carries the flag. Best effort, the fallback is unverified for
// multi-level chains.
func leafCategory(categories []shopeeCategory) models.CategoryID {
	if len(categories) == 0 {
		return models.UnknownCategory
	}
	for _, cat := range categories {
		if cat.NoSub {
			return models.CategoryID(cat.CatID)
		}
	}
	return models.CategoryID(categories[0].CatID)
}

type shopeeSellerResponse struct {
	ErrorMsg string `json:"error_msg"`
	Data     *struct {
		ShopID          int64   `json:"shopid"`
		Name            string  `json:"name"`
		LastActiveTime  int64   `json:"last_active_time"`
		IsShopeeVerifed bool    `json:"is_shopee_verified"`
		IsOfficialShop  bool    `json:"is_official_shop"`
		RatingStar      float64 `json:"rating_star"`
		RatingBad       int64   `json:"rating_bad"`
		RatingNormal    int64   `json:"rating_normal"`
		RatingGood      int64   `json:"rating_good"`
		CTime           int64   `json:"ctime"`
		FollowerCount   int64   `json:"follower_count"`
		ItemCount       int64   `json:"item_count"`
		ResponseRate    float64 `json:"response_rate"`
		Description     string  `json:"description"`
		ShopLocation    string  `json:"shop_location"`
	} `json:"data"`
}

func (a *ShopeeAdapter) FetchSeller(ctx context.Context, sellerID int64) (*models.Seller, error) {
	url := a.baseURL + strings.ReplaceAll(pathSellerShopee, "{seller_id}", strconv.FormatInt(sellerID, 10))
	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload shopeeSellerResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("shopee seller payload: %w", err)
	}
	if payload.ErrorMsg == "shop not found" || payload.Data == nil {
		return nil, fmt.Errorf("shopee seller %d: %w", sellerID, ErrNotFound)
	}

	data := payload.Data
	return &models.Seller{
		ID:             data.ShopID,
		Name:           data.Name,
		IsOfficialShop: data.IsOfficialShop,
		Rating:         data.RatingStar,
		TotalRating:    data.RatingBad + data.RatingNormal + data.RatingGood,
		Created:        data.CTime * 1000,
		Follower:       data.FollowerCount,
		LastActive:     data.LastActiveTime * 1000,
		IsVerified:     data.IsShopeeVerifed,
		RatingBad:      data.RatingBad,
		RatingNormal:   data.RatingNormal,
		RatingGood:     data.RatingGood,
		TotalItem:      data.ItemCount,
		ResponseRate:   data.ResponseRate,
		Description:    data.Description,
		Location:       data.ShopLocation,
	}, nil
}

type shopeeReviewResponse struct {
	Data struct {
		ItemRatingSummary struct {
			RatingAverage   float64 `json:"rating_average"`
			RatingTotal     int64   `json:"rating_total"`
			RCountWithImage int64   `json:"rcount_with_image"`
			RCountWithMedia int64   `json:"rcount_with_media"`
			RatingCount     []int64 `json:"rating_count"` // index 0 = 1 star
		} `json:"item_rating_summary"`
		Ratings []struct {
			ItemID         int64           `json:"itemid"`
			Comment        string          `json:"comment"`
			RatingStar     float64         `json:"rating_star"`
			Images         []string        `json:"images"`
			Videos         json.RawMessage `json:"videos"`
			CTime          int64           `json:"ctime"`
			AuthorUsername string          `json:"author_username"`
		} `json:"ratings"`
	} `json:"data"`
}

func (a *ShopeeAdapter) FetchReviews(ctx context.Context, query ReviewQuery) (*models.ReviewSet, error) {
	url := a.baseURL + pathReviewShopee
	url = strings.ReplaceAll(url, "{item_id}", strconv.FormatInt(query.ItemID, 10))
	url = strings.ReplaceAll(url, "{seller_id}", strconv.FormatInt(query.SellerID, 10))
	url += fmt.Sprintf("&limit=%d&offset=%d", query.Limit, (query.Page-1)*query.Limit)

	// type carries the star score when filtering by stars (filter=0); a
	// filter of 3 selects reviews with media instead.
	switch {
	case query.Star > 0:
		url += fmt.Sprintf("&filter=0&type=%d", query.Star)
	case query.HasMedia:
		url += "&filter=3&type=0"
	}

	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload shopeeReviewResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("shopee review payload: %w", err)
	}

	summary := payload.Data.ItemRatingSummary
	rates := make(map[int]int64, 5)
	for star := 1; star <= 5; star++ {
		if star-1 < len(summary.RatingCount) {
			rates[star] = summary.RatingCount[star-1]
		}
	}

	reviews := make([]models.Review, 0, len(payload.Data.Ratings))
	for _, el := range payload.Data.Ratings {
		images := make([]string, 0, len(el.Images))
		for _, img := range el.Images {
			images = append(images, a.fileURL(img))
		}
		reviews = append(reviews, models.Review{
			ID:        el.ItemID,
			Content:   el.Comment,
			Rating:    el.RatingStar,
			Images:    images,
			Videos:    el.Videos,
			CreatedAt: el.CTime * 1000,
			User:      models.ReviewUser{Name: el.AuthorUsername},
		})
	}

	// The endpoint reports no match count consistent with the filter, so it
	// is derived from the rating summary histogram instead.
	var totalMatch int64
	switch {
	case query.Star > 0:
		if query.Star-1 < len(summary.RatingCount) {
			totalMatch = summary.RatingCount[query.Star-1]
		}
	case query.HasMedia:
		totalMatch = summary.RCountWithMedia
	default:
		totalMatch = summary.RatingTotal
	}

	var lastPage int64
	if query.Limit > 0 {
		lastPage = (totalMatch + int64(query.Limit) - 1) / int64(query.Limit)
	}

	return &models.ReviewSet{
		RatingAverage:        summary.RatingAverage,
		TotalReview:          summary.RatingTotal,
		TotalReviewHaveMedia: summary.RCountWithImage,
		Rates:                rates,
		Reviews:              reviews,
		Count:                len(reviews),
		Pagination: models.ReviewPagination{
			TotalMatch:  totalMatch,
			Limit:       query.Limit,
			CurrentPage: query.Page,
			LastPage:    lastPage,
		},
	}, nil
}

type shopeeSearchResponse struct {
	Items []struct {
		ItemBasic struct {
			ItemID     int64  `json:"itemid"`
			ShopID     int64  `json:"shopid"`
			Name       string `json:"name"`
			CatID      int64  `json:"catid"`
			Image      string `json:"image"`
			CmtCount   int64  `json:"cmt_count"`
			Price      int64  `json:"price"`
			ItemRating struct {
				RatingStar float64 `json:"rating_star"`
			} `json:"item_rating"`
		} `json:"item_basic"`
	} `json:"items"`
}

func (a *ShopeeAdapter) Search(ctx context.Context, query string, limit int) ([]models.Item, error) {
	url := a.baseURL + strings.ReplaceAll(pathSearchShopee, "{q}", queryEscape(query))
	if limit > 0 {
		url += fmt.Sprintf("&limit=%d", limit)
	}

	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload shopeeSearchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("shopee search payload: %w", err)
	}

	items := make([]models.Item, 0, len(payload.Items))
	for _, el := range payload.Items {
		basic := el.ItemBasic
		items = append(items, models.Item{
			ID:           basic.ItemID,
			Platform:     models.PlatformShopee,
			Name:         basic.Name,
			SellerID:     basic.ShopID,
			CategoryID:   models.CategoryID(basic.CatID),
			Rating:       basic.ItemRating.RatingStar,
			TotalReview:  basic.CmtCount,
			ThumbnailURL: a.fileURL(basic.Image),
			ProductURL:   fmt.Sprintf("https://shopee.vn/product/%d/%d", basic.ShopID, basic.ItemID),
			CurrentPrice: basic.Price / shopeePriceUnit,
		})
	}
	return items, nil
}
