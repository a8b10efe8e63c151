// internal/models/seller.go
package models

// Seller is the normalized shop record. Sellers are never persisted by this
// layer; they are fetched live or served from cache. Fields past Follower are
// Shopee-only, Tiki's seller widget does not report them.
type Seller struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	IsOfficialShop bool    `json:"isOfficialShop"`
	Rating         float64 `json:"rating"`
	TotalRating    int64   `json:"totalRating"`
	Created        int64   `json:"created"` // epoch ms
	Follower       int64   `json:"follower"`

	LastActive   int64   `json:"lastActive,omitempty"` // epoch ms
	IsVerified   bool    `json:"isVerified,omitempty"`
	RatingBad    int64   `json:"ratingBad,omitempty"`    // 1 star
	RatingNormal int64   `json:"ratingNormal,omitempty"` // 2 and 3 star
	RatingGood   int64   `json:"ratingGood,omitempty"`   // 4 and 5 star
	TotalItem    int64   `json:"totalItem,omitempty"`
	ResponseRate float64 `json:"responseRate,omitempty"`
	Description  string  `json:"description,omitempty"`
	Location     string  `json:"location,omitempty"`
}
