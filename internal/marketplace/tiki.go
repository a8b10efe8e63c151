// internal/marketplace/tiki.go
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pricetrack/backend/internal/models"
)

// TikiAdapter talks to Tiki's public product, seller-widget, review and
// search endpoints. Tiki keys everything on the item id alone; seller ids
// only appear inside responses.
type TikiAdapter struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
	log     *logrus.Logger
}

func NewTikiAdapter(cfg Config, log *logrus.Logger) *TikiAdapter {
	cfg = cfg.withDefaults()
	return &TikiAdapter{
		client:  newClient(cfg.Timeout, tikiHeaders()),
		limiter: newLimiter(cfg),
		baseURL: strings.TrimSuffix(cfg.TikiBaseURL, "/"),
		log:     log,
	}
}

func (a *TikiAdapter) Platform() models.Platform { return models.PlatformTiki }

func (a *TikiAdapter) get(ctx context.Context, url string) (*resty.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := a.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("tiki request failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("tiki responded 404: %w", ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tiki responded %d", resp.StatusCode())
	}
	return resp, nil
}

type tikiProduct struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price"`
	RatingAverage float64     `json:"rating_average"`
	ReviewCount   int64       `json:"review_count"`
	ThumbnailURL  string      `json:"thumbnail_url"`
	ShortURL      string      `json:"short_url"`
	CurrentSeller *struct {
		ID int64 `json:"id"`
	} `json:"current_seller"`
	Categories *struct {
		ID int64 `json:"id"`
	} `json:"categories"`
	StockItem *struct {
		Qty int64 `json:"qty"`
	} `json:"stock_item"`
	Images []struct {
		BaseURL string `json:"base_url"`
	} `json:"images"`
}

func (a *TikiAdapter) FetchItem(ctx context.Context, itemID, sellerID int64, includeImages bool) (*models.Item, error) {
	url := a.baseURL + strings.ReplaceAll(pathItemTiki, "{item_id}", strconv.FormatInt(itemID, 10))
	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var product tikiProduct
	if err := json.Unmarshal(resp.Body(), &product); err != nil {
		return nil, fmt.Errorf("tiki item payload: %w", err)
	}

	item := &models.Item{
		ID:           product.ID,
		Platform:     models.PlatformTiki,
		Name:         product.Name,
		SellerID:     models.NoSellerID, // delisted unless a seller shows up
		CategoryID:   models.UnknownCategory,
		Rating:       product.RatingAverage,
		TotalReview:  product.ReviewCount,
		ThumbnailURL: product.ThumbnailURL,
		ProductURL:   product.ShortURL,
		CurrentPrice: parsePrice(product.Price),
	}
	if product.CurrentSeller != nil {
		item.SellerID = product.CurrentSeller.ID
	}
	if product.Categories != nil {
		item.CategoryID = models.CategoryID(product.Categories.ID)
	}
	if product.StockItem != nil {
		item.Stock = product.StockItem.Qty
	}
	if includeImages {
		images := make([]string, 0, len(product.Images))
		for _, img := range product.Images {
			images = append(images, img.BaseURL)
		}
		item.PreviewImages = images
	}

	return item, nil
}

type tikiSellerResponse struct {
	Data *struct {
		Seller struct {
			ID              int64   `json:"id"`
			Name            string  `json:"name"`
			IsOfficial      bool    `json:"is_official"`
			AvgRatingPoint  float64 `json:"avg_rating_point"`
			ReviewCount     int64   `json:"review_count"`
			DaysSinceJoined int64   `json:"days_since_joined"`
			TotalFollower   int64   `json:"total_follower"`
		} `json:"seller"`
	} `json:"data"`
}

func (a *TikiAdapter) FetchSeller(ctx context.Context, sellerID int64) (*models.Seller, error) {
	url := a.baseURL + strings.ReplaceAll(pathSellerTiki, "{seller_id}", strconv.FormatInt(sellerID, 10))
	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload tikiSellerResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("tiki seller payload: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("tiki seller %d: %w", sellerID, ErrNotFound)
	}

	seller := payload.Data.Seller
	return &models.Seller{
		ID:             seller.ID,
		Name:           seller.Name,
		IsOfficialShop: seller.IsOfficial,
		Rating:         seller.AvgRatingPoint,
		TotalRating:    seller.ReviewCount,
		// The widget only reports an age in days.
		Created:  time.Now().UnixMilli() - seller.DaysSinceJoined*24*60*60*1000,
		Follower: seller.TotalFollower,
	}, nil
}

type tikiReviewResponse struct {
	RatingAverage float64 `json:"rating_average"`
	ReviewsCount  int64   `json:"reviews_count"`
	ReviewPhoto   struct {
		Total int64 `json:"total"`
	} `json:"review_photo"`
	Stars map[string]struct {
		Count int64 `json:"count"`
	} `json:"stars"`
	Data []struct {
		ID      int64   `json:"id"`
		Content string  `json:"content"`
		Rating  float64 `json:"rating"`
		Images  []struct {
			FullPath string `json:"full_path"`
		} `json:"images"`
		CreatedAt int64 `json:"created_at"`
		CreatedBy struct {
			Name     string `json:"name"`
			FullName string `json:"full_name"`
		} `json:"created_by"`
	} `json:"data"`
	Paging struct {
		Total    int64 `json:"total"`
		LastPage int64 `json:"last_page"`
	} `json:"paging"`
}

func (a *TikiAdapter) FetchReviews(ctx context.Context, query ReviewQuery) (*models.ReviewSet, error) {
	url := a.baseURL + strings.ReplaceAll(pathReviewTiki, "{item_id}", strconv.FormatInt(query.ItemID, 10))
	url += fmt.Sprintf("&limit=%d&page=%d", query.Limit, query.Page)
	if query.SellerID > 0 {
		url += fmt.Sprintf("&seller_id=%d", query.SellerID)
	}
	switch {
	case query.Star > 0:
		url += fmt.Sprintf("&sort=stars|%d", query.Star)
	case query.HasMedia:
		url += "&sort=has_image"
	}

	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload tikiReviewResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("tiki review payload: %w", err)
	}

	rates := make(map[int]int64, 5)
	for star := 1; star <= 5; star++ {
		rates[star] = payload.Stars[strconv.Itoa(star)].Count
	}

	reviews := make([]models.Review, 0, len(payload.Data))
	for _, el := range payload.Data {
		images := make([]string, 0, len(el.Images))
		for _, img := range el.Images {
			images = append(images, img.FullPath)
		}
		reviews = append(reviews, models.Review{
			ID:        el.ID,
			Content:   el.Content,
			Rating:    el.Rating,
			Images:    images,
			CreatedAt: el.CreatedAt * 1000,
			User: models.ReviewUser{
				Name:     el.CreatedBy.Name,
				FullName: el.CreatedBy.FullName,
			},
		})
	}

	return &models.ReviewSet{
		RatingAverage:        payload.RatingAverage,
		TotalReview:          payload.ReviewsCount,
		TotalReviewHaveMedia: payload.ReviewPhoto.Total,
		Rates:                rates,
		Reviews:              reviews,
		Count:                len(reviews),
		Pagination: models.ReviewPagination{
			// Tiki reports the filtered match count directly.
			TotalMatch:  payload.Paging.Total,
			Limit:       query.Limit,
			CurrentPage: query.Page,
			LastPage:    payload.Paging.LastPage,
		},
	}, nil
}

type tikiSearchResponse struct {
	Data []struct {
		ID            int64       `json:"id"`
		Name          string      `json:"name"`
		RatingAverage float64     `json:"rating_average"`
		ThumbnailURL  string      `json:"thumbnail_url"`
		ReviewCount   int64       `json:"review_count"`
		URLPath       string      `json:"url_path"`
		Price         json.Number `json:"price"`
	} `json:"data"`
}

func (a *TikiAdapter) Search(ctx context.Context, query string, limit int) ([]models.Item, error) {
	url := a.baseURL + strings.ReplaceAll(pathSearchTiki, "{q}", queryEscape(query))
	if limit > 0 {
		url += fmt.Sprintf("&limit=%d", limit)
	}

	resp, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload tikiSearchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("tiki search payload: %w", err)
	}

	items := make([]models.Item, 0, len(payload.Data))
	for _, el := range payload.Data {
		items = append(items, models.Item{
			ID:           el.ID,
			Platform:     models.PlatformTiki,
			Name:         el.Name,
			CategoryID:   models.UnknownCategory,
			Rating:       el.RatingAverage,
			TotalReview:  el.ReviewCount,
			ThumbnailURL: el.ThumbnailURL,
			ProductURL:   "https://tiki.vn/" + el.URLPath,
			CurrentPrice: parsePrice(el.Price),
		})
	}
	return items, nil
}

// parsePrice reads Tiki's stringly-typed price field. Integers are the
// normal case; the occasional "123000.0" still parses.
func parsePrice(n json.Number) int64 {
	s := n.String()
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
