// internal/marketplace/url.go
package marketplace

import (
	"strconv"
	"strings"

	"github.com/pricetrack/backend/internal/models"
)

// ProductRef is what a product page URL resolves to. Platform is empty for
// unrecognized hosts and ids are 0 when their segment did not parse; callers
// treat both as "not found".
type ProductRef struct {
	Platform models.Platform `json:"platform,omitempty"`
	ItemID   int64           `json:"itemId,omitempty"`
	SellerID int64           `json:"sellerId,omitempty"`
}

// ParseProductURL extracts (platform, itemId, sellerId) from a marketplace
// product URL. Three grammars are understood:
//
//	shopee canonical  .../product/{sellerId}/{itemId}
//	shopee SEO slug   ...-i.{sellerId}.{itemId}
//	tiki              .../{slug}-p{itemId}.html[?...]
//
// Parsing never fails; malformed input yields a zero ref.
func ParseProductURL(rawURL string) ProductRef {
	url := strings.ToLower(rawURL)

	var ref ProductRef
	switch {
	case strings.Contains(url, "shopee"):
		ref.Platform = models.PlatformShopee
	case strings.Contains(url, "tiki"):
		ref.Platform = models.PlatformTiki
	default:
		return ref
	}

	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		url = url[:idx]
	}

	switch ref.Platform {
	case models.PlatformShopee:
		// Item id is the last segment, seller id the one before it, whether
		// the segments are path elements or dot-separated slug tails.
		sep := "."
		if strings.Contains(url, "/product/") {
			sep = "/"
		}
		segments := strings.Split(url, sep)
		if len(segments) < 2 {
			return ref
		}
		ref.ItemID = parseID(segments[len(segments)-1])
		ref.SellerID = parseID(segments[len(segments)-2])
	case models.PlatformTiki:
		if idx := strings.Index(url, ".html"); idx >= 0 {
			url = url[:idx]
		}
		segments := strings.Split(url, "-")
		last := segments[len(segments)-1]
		ref.ItemID = parseID(strings.TrimPrefix(last, "p"))
	}

	return ref
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
