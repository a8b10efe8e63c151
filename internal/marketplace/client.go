// internal/marketplace/client.go
package marketplace

import (
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Config carries the per-deployment marketplace settings. Base URLs are
// overridable so tests can point adapters at a local server.
type Config struct {
	TikiBaseURL         string
	ShopeeBaseURL       string
	ShopeeFileServerURL string
	Timeout             time.Duration
	RequestsPerSecond   float64
	Burst               int
}

func (c Config) withDefaults() Config {
	if c.TikiBaseURL == "" {
		c.TikiBaseURL = "https://tiki.vn"
	}
	if c.ShopeeBaseURL == "" {
		c.ShopeeBaseURL = "https://shopee.vn"
	}
	if c.ShopeeFileServerURL == "" {
		c.ShopeeFileServerURL = "https://cf.shopee.vn/file/"
	}
	if c.Timeout == 0 {
		c.Timeout = 20 * time.Second
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 5
	}
	if c.Burst == 0 {
		c.Burst = 10
	}
	return c
}

// newClient builds the resty client shared by one adapter's calls, with the
// marketplace's required header set baked in.
func newClient(timeout time.Duration, headers map[string]string) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeaders(headers)
}

// queryEscape makes a free-text search term safe inside a URL template.
func queryEscape(q string) string {
	return url.QueryEscape(q)
}

// newLimiter paces calls against one upstream so a burst of cold-cache
// requests does not trip the marketplace's rate limiting.
func newLimiter(cfg Config) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
}
