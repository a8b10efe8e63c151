// internal/models/result.go
package models

// ResolveStatus tags the outcome of an entity resolution. "Not found
// upstream" and "upstream failed" are data, not errors: callers branch on the
// status instead of unwinding, and an HTTP surface maps them to 404/502.
type ResolveStatus string

const (
	StatusFound         ResolveStatus = "found"
	StatusNotFound      ResolveStatus = "not_found"
	StatusUpstreamError ResolveStatus = "upstream_error"
)

type ItemResult struct {
	Status  ResolveStatus `json:"status"`
	Message string        `json:"message,omitempty"`
	Item    *Item         `json:"item,omitempty"`
}

func FoundItem(item *Item) *ItemResult {
	return &ItemResult{Status: StatusFound, Item: item}
}

func ItemNotFound(message string) *ItemResult {
	return &ItemResult{Status: StatusNotFound, Message: message}
}

func ItemUpstreamError(message string) *ItemResult {
	return &ItemResult{Status: StatusUpstreamError, Message: message}
}

type SellerResult struct {
	Status  ResolveStatus `json:"status"`
	Message string        `json:"message,omitempty"`
	Seller  *Seller       `json:"seller,omitempty"`
}

func FoundSeller(seller *Seller) *SellerResult {
	return &SellerResult{Status: StatusFound, Seller: seller}
}

func SellerNotFound(message string) *SellerResult {
	return &SellerResult{Status: StatusNotFound, Message: message}
}

func SellerUpstreamError(message string) *SellerResult {
	return &SellerResult{Status: StatusUpstreamError, Message: message}
}

type ReviewResult struct {
	Status  ResolveStatus `json:"status"`
	Message string        `json:"message,omitempty"`
	Reviews *ReviewSet    `json:"reviews,omitempty"`
}

func FoundReviews(set *ReviewSet) *ReviewResult {
	return &ReviewResult{Status: StatusFound, Reviews: set}
}

func ReviewsNotFound(message string) *ReviewResult {
	return &ReviewResult{Status: StatusNotFound, Message: message}
}

func ReviewsUpstreamError(message string) *ReviewResult {
	return &ReviewResult{Status: StatusUpstreamError, Message: message}
}
