// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/cache"
	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/handlers"
	"github.com/pricetrack/backend/internal/marketplace"
	"github.com/pricetrack/backend/internal/middleware"
	"github.com/pricetrack/backend/internal/repository"
	"github.com/pricetrack/backend/internal/services"
)

func Initialize(db *gorm.DB, cacheClient cache.Cache, cfg *config.Config, log *logrus.Logger) *gin.Engine {
	marketplaceCfg := marketplace.Config{
		TikiBaseURL:         cfg.Marketplace.TikiBaseURL,
		ShopeeBaseURL:       cfg.Marketplace.ShopeeBaseURL,
		ShopeeFileServerURL: cfg.Marketplace.ShopeeFileServerURL,
		Timeout:             time.Duration(cfg.Marketplace.RequestTimeout) * time.Second,
		RequestsPerSecond:   cfg.Marketplace.RequestsPerSecond,
		Burst:               cfg.Marketplace.Burst,
	}
	adapters := marketplace.NewRegistry(
		marketplace.NewTikiAdapter(marketplaceCfg, log),
		marketplace.NewShopeeAdapter(marketplaceCfg, log),
	)

	repo := repository.NewItemRepository(db)
	cacheTTL := time.Duration(cfg.Marketplace.CacheTTL) * time.Second

	resolutionService := services.NewResolutionService(repo, cacheClient, adapters, cacheTTL, log)
	searchService := services.NewSearchService(repo, adapters, log)

	itemHandler := handlers.NewItemHandler(resolutionService, searchService)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())
	r.Use(middleware.NewRateLimiter(10, 30).Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		items := v1.Group("/items")
		{
			items.GET("/info", itemHandler.GetInfoByItemURL)
			items.GET("/search", itemHandler.SearchItems)
			items.GET("/review", itemHandler.GetReviewInfo)
			items.GET("/seller/:sellerId", itemHandler.GetSellerInfo)
			items.GET("/:itemId", itemHandler.GetItemInfo)
		}
	}

	return r
}
