// internal/marketplace/url_test.go
package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pricetrack/backend/internal/models"
)

func TestParseProductURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want ProductRef
	}{
		{
			name: "shopee canonical path",
			url:  "https://shopee.vn/product/9918567180/283338743",
			want: ProductRef{Platform: models.PlatformShopee, SellerID: 9918567180, ItemID: 283338743},
		},
		{
			name: "shopee canonical path with query",
			url:  "https://shopee.vn/product/9918567180/283338743?sp_atk=abc",
			want: ProductRef{Platform: models.PlatformShopee, SellerID: 9918567180, ItemID: 283338743},
		},
		{
			name: "shopee seo slug",
			url:  "https://shopee.vn/bach-tuoc-cam-xuc-2-mat-do-choi-i.283338743.9918567180",
			want: ProductRef{Platform: models.PlatformShopee, SellerID: 283338743, ItemID: 9918567180},
		},
		{
			name: "tiki with query string",
			url:  "https://tiki.vn/dien-thoai-iphone-12-pro-max-128gb-hang-chinh-hang-p70771651.html?src=ss-organic",
			want: ProductRef{Platform: models.PlatformTiki, ItemID: 70771651},
		},
		{
			name: "tiki without query string",
			url:  "https://tiki.vn/mot-san-pham-p123.html",
			want: ProductRef{Platform: models.PlatformTiki, ItemID: 123},
		},
		{
			name: "uppercase host still recognized",
			url:  "https://SHOPEE.vn/product/11/22",
			want: ProductRef{Platform: models.PlatformShopee, SellerID: 11, ItemID: 22},
		},
		{
			name: "unknown marketplace",
			url:  "https://lazada.vn/products/something-i123.html",
			want: ProductRef{},
		},
		{
			name: "shopee malformed trailing segment",
			url:  "https://shopee.vn/product/9918567180/not-a-number",
			want: ProductRef{Platform: models.PlatformShopee, SellerID: 9918567180, ItemID: 0},
		},
		{
			name: "tiki malformed id",
			url:  "https://tiki.vn/khong-co-id.html",
			want: ProductRef{Platform: models.PlatformTiki, ItemID: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProductURL(tt.url))
		})
	}
}
