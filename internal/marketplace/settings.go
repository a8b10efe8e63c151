// internal/marketplace/settings.go
package marketplace

// Endpoint paths relative to each marketplace's base URL. Placeholders are
// substituted before the request goes out.
const (
	pathItemTiki   = "/api/v2/products/{item_id}"
	pathSellerTiki = "/api/shopping/v2/widgets/seller?seller_id={seller_id}"
	pathReviewTiki = "/api/v2/reviews?product_id={item_id}"
	pathSearchTiki = "/api/v2/products?q={q}"

	pathItemShopee   = "/api/v2/item/get?itemid={item_id}&shopid={seller_id}&fbclid=-"
	pathSellerShopee = "/api/v4/shop/get_shop_detail?shopid={seller_id}"
	// flag is required by the ratings endpoint; type, filter, offset and
	// limit are appended per request.
	pathReviewShopee = "/api/v2/item/get_ratings?flag=1&itemid={item_id}&shopid={seller_id}"
	pathSearchShopee = "/api/v4/search/search_items?keyword={q}"
)

// Both marketplaces reject requests without a browser-looking header set.
func tikiHeaders() map[string]string {
	return map[string]string{
		"Connection":      "keep-alive",
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.111 Safari/537.36",
		"Accept":          "*/*",
		"Sec-Fetch-Site":  "cross-site",
		"Sec-Fetch-Mode":  "cors",
		"Sec-Fetch-Dest":  "empty",
		"Referer":         "https://tiki.vn/",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func shopeeHeaders() map[string]string {
	return map[string]string{
		"Connection":      "keep-alive",
		"if-none-match-":  "55b03-14bc0d8585b6a1c6ef3f05c0c3078db0",
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.75 Safari/537.36",
		"Referer":         "https://shopee.vn/",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
