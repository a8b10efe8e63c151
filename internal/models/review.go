// internal/models/review.go
package models

import "encoding/json"

// ReviewFilter narrows a review listing to one criterion. Star and HasMedia
// are mutually exclusive; combining them is unsupported.
type ReviewFilter struct {
	Star     int  `json:"star,omitempty"` // 1-5, 0 means off
	HasMedia bool `json:"hasMedia,omitempty"`
}

func (f ReviewFilter) Empty() bool {
	return f.Star == 0 && !f.HasMedia
}

type ReviewUser struct {
	Name     string `json:"name"`
	FullName string `json:"fullName,omitempty"`
}

type Review struct {
	ID        int64           `json:"id"`
	Content   string          `json:"content"`
	Rating    float64         `json:"rating"`
	Images    []string        `json:"images"`
	Videos    json.RawMessage `json:"videos,omitempty"` // Shopee passes these through untouched
	CreatedAt int64           `json:"createdAt"`        // epoch ms
	User      ReviewUser      `json:"user"`
}

type ReviewPagination struct {
	TotalMatch  int64 `json:"totalMatch"`
	Limit       int   `json:"limit"`
	CurrentPage int   `json:"currentPage"`
	LastPage    int64 `json:"lastPage"`
}

// ReviewSet is one page of reviews plus the item's rating summary.
type ReviewSet struct {
	RatingAverage        float64          `json:"ratingAverage"`
	TotalReview          int64            `json:"totalReview"`
	TotalReviewHaveMedia int64            `json:"totalReviewHaveMedia"`
	Rates                map[int]int64    `json:"rates"` // star 1-5 -> count
	Reviews              []Review         `json:"reviews"`
	Count                int              `json:"count"`
	Pagination           ReviewPagination `json:"pagination"`
	Filter               ReviewFilter     `json:"filter"`
}
