// internal/models/item.go
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Platform string

const (
	PlatformTiki   Platform = "tiki"
	PlatformShopee Platform = "shopee"
)

// ParsePlatform normalizes user input into a known platform.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformTiki:
		return PlatformTiki, true
	case PlatformShopee:
		return PlatformShopee, true
	}
	return "", false
}

func (p Platform) Valid() bool {
	return p == PlatformTiki || p == PlatformShopee
}

// NoSellerID marks an item that is no longer sold by anyone. Tiki delists
// items this way while keeping the product page up.
const NoSellerID int64 = -1

// CategoryID is an integer category id that serializes to the literal
// "unknown" when the marketplace reported none.
type CategoryID int64

const UnknownCategory CategoryID = 0

func (c CategoryID) MarshalJSON() ([]byte, error) {
	if c == UnknownCategory {
		return []byte(`"unknown"`), nil
	}
	return []byte(strconv.FormatInt(int64(c), 10)), nil
}

func (c *CategoryID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "unknown" || s == "" || s == "null" {
		*c = UnknownCategory
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid category id %q: %w", s, err)
	}
	*c = CategoryID(n)
	return nil
}

// Item is the canonical product record shared by the store, the cache and
// the marketplace adapters. Item ids are unique within a platform only, so
// the store keys rows on (id, platform).
type Item struct {
	ID            int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Platform      Platform   `gorm:"primaryKey;size:16" json:"platform"`
	Name          string     `json:"name"`
	SellerID      int64      `json:"sellerId"`
	CategoryID    CategoryID `json:"categoryId"`
	Rating        float64    `json:"rating"`
	TotalReview   int64      `json:"totalReview"`
	ThumbnailURL  string     `json:"thumbnailUrl"`
	ProductURL    string     `json:"productUrl"`
	CurrentPrice  int64      `json:"currentPrice"`
	Stock         int64      `json:"stock,omitempty"`
	PreviewImages []string   `gorm:"-" json:"previewImages,omitempty"`

	// Crawler bookkeeping, never handed to callers.
	Expired int64 `gorm:"column:expired" json:"-"`
}

func (Item) TableName() string { return "items" }

// PricePoint is one crawled price observation. History only exists once the
// crawler has persisted it; this layer never writes price points.
type PricePoint struct {
	ItemID    int64     `gorm:"index:idx_item_prices_item,priority:1" json:"itemId"`
	Platform  Platform  `gorm:"index:idx_item_prices_item,priority:2;size:16" json:"platform"`
	Price     int64     `json:"price"`
	TrackedAt time.Time `json:"trackedAt"`
}

func (PricePoint) TableName() string { return "item_prices" }
