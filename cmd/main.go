package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/catalog"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
)

// @title Catalog Service API
// @version 1.0.0
// @description Multi-tenant storefront catalog with host-based store resolution

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis client; caching is optional and disabled when
	// unreachable
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		} else {
			client := redis.NewClient(redisOpts)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
			} else {
				redisClient = client
				log.Println("✓ Redis connected successfully")
			}
			cancel()
		}
	}

	// Wire the in-process event bus: catalog mutations recompute the
	// denormalized price range and rating inside the same transaction
	bus := events.NewBus(logger)
	maintainer := catalog.NewMaintainer(logger)
	maintainer.Register(bus)

	// Initialize repositories
	storesRepo := repository.NewStoresRepository(db)
	categoriesRepo := repository.NewCategoriesRepository(db)
	productsRepo := repository.NewProductsRepository(db, redisClient, bus, logger)
	reviewsRepo := repository.NewReviewsRepository(db, bus, productsRepo, logger)

	// Initialize handlers
	storesHandler := handlers.NewStoresHandler(storesRepo)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesRepo)
	productsHandler := handlers.NewProductsHandler(productsRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	reviewsHandler := handlers.NewReviewsHandler(reviewsRepo)
	exportHandler := handlers.NewExportHandler(productsRepo, logger)
	storefrontHandler := handlers.NewStorefrontHandler(storesRepo, categoriesRepo, productsRepo, reviewsRepo, productsHandler, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.BaseDomain))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	tenantCfg := middleware.TenantConfig{
		BaseDomain:        cfg.BaseDomain,
		IgnoredSubdomains: cfg.IgnoredSubdomains,
		BypassPrefixes:    cfg.BypassPrefixes,
	}

	// =========================================================================
	// PUBLIC STOREFRONT ENDPOINTS (no auth; store resolved from request host)
	// =========================================================================
	storefront := router.Group("/api/v1/storefront")
	storefront.Use(middleware.Tenant(tenantCfg, storesRepo, logger))
	storefront.Use(middleware.DevelopmentAuth())
	storefront.Use(middleware.RequireStore())
	{
		storefront.GET("/store", storefrontHandler.GetStore)
		storefront.GET("/categories", storefrontHandler.ListCategories)
		storefront.GET("/brands", storefrontHandler.ListBrands)
		storefront.GET("/products", storefrontHandler.ListProducts)
		storefront.GET("/products/:slug", storefrontHandler.GetProduct)
		storefront.GET("/products/:slug/reviews", storefrontHandler.ListReviews)
		storefront.POST("/products/:slug/reviews", storefrontHandler.PostReview)
	}

	// =========================================================================
	// ADMIN ENDPOINTS (store addressed explicitly by ID)
	// =========================================================================
	api := router.Group("/api/v1")
	api.Use(middleware.DevelopmentAuth())
	{
		stores := api.Group("/stores")
		{
			stores.POST("", storesHandler.CreateStore)
			stores.GET("/:storeId", storesHandler.GetStore)
			stores.PUT("/:storeId", storesHandler.UpdateStore)

			stores.GET("/:storeId/socials", storesHandler.ListSocials)
			stores.POST("/:storeId/socials", storesHandler.CreateSocial)
			stores.PUT("/:storeId/socials/:socialId", storesHandler.UpdateSocial)
			stores.DELETE("/:storeId/socials/:socialId", storesHandler.DeleteSocial)

			stores.GET("/:storeId/categories", categoriesHandler.ListCategories)
			stores.POST("/:storeId/categories", categoriesHandler.CreateCategory)
			stores.PUT("/:storeId/categories/:categoryId", categoriesHandler.UpdateCategory)
			stores.DELETE("/:storeId/categories/:categoryId", categoriesHandler.DeleteCategory)

			stores.GET("/:storeId/brands", categoriesHandler.ListBrands)
			stores.POST("/:storeId/brands", categoriesHandler.CreateBrand)
			stores.DELETE("/:storeId/brands/:brandId", categoriesHandler.DeleteBrand)

			stores.GET("/:storeId/products", productsHandler.ListProducts)
			stores.POST("/:storeId/products", productsHandler.CreateProduct)
			stores.GET("/:storeId/export/products", exportHandler.ExportProducts)
			stores.GET("/:storeId/products/:productId", productsHandler.GetProduct)
			stores.PUT("/:storeId/products/:productId", productsHandler.UpdateProduct)
			stores.DELETE("/:storeId/products/:productId", productsHandler.DeleteProduct)

			stores.POST("/:storeId/products/:productId/colors", productsHandler.AddColor)
			stores.DELETE("/:storeId/products/:productId/colors/:colorId", productsHandler.DeleteColor)

			stores.POST("/:storeId/products/:productId/variants", productsHandler.CreateVariant)
			stores.PUT("/:storeId/products/:productId/variants/:variantId", productsHandler.UpdateVariant)
			stores.DELETE("/:storeId/products/:productId/variants/:variantId", productsHandler.DeleteVariant)

			stores.POST("/:storeId/products/:productId/images", productsHandler.AddImage)
			stores.PUT("/:storeId/products/:productId/images/:imageId", productsHandler.UpdateImage)
			stores.PUT("/:storeId/products/:productId/images/:imageId/main", productsHandler.SetMainImage)
			stores.DELETE("/:storeId/products/:productId/images/:imageId", productsHandler.DeleteImage)

			stores.GET("/:storeId/products/:productId/reviews", reviewsHandler.ListAllReviews)
			stores.PUT("/:storeId/products/:productId/reviews/:reviewId", reviewsHandler.UpdateReview)
			stores.PUT("/:storeId/products/:productId/reviews/:reviewId/publish", reviewsHandler.PublishReview)
			stores.PUT("/:storeId/products/:productId/reviews/:reviewId/unpublish", reviewsHandler.UnpublishReview)
			stores.DELETE("/:storeId/products/:productId/reviews/:reviewId", reviewsHandler.DeleteReview)
		}

		api.GET("/genders", categoriesHandler.ListGenders)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down catalog-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Catalog service stopped")
}
