package main

import (
	"log"
	"net/http"
	"os"

	_ "shopgate/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shopgate/internal/auth"
	"shopgate/internal/cache"
	"shopgate/internal/config"
	"shopgate/internal/db"
	"shopgate/internal/handler"
	"shopgate/internal/model"
	"shopgate/internal/repository"
	"shopgate/internal/router"
	"shopgate/internal/service"
	"shopgate/internal/shopify"
)

// @title Shopgate API
// @version 1.0
// @description Merchant API gateway with JWT and API key authentication, role permissions, and Shopify webhooks.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.APIKey{},
			&model.Product{},
			&model.User{},
			&model.Role{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.APIKey{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	apiKeyRepo := repository.NewAPIKeyRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth components
	tokenService := auth.NewTokenService(cfg.JWTSecret)
	loginThrottle := auth.NewLoginThrottle(auth.LoginCooldown)
	authMiddleware := auth.NewMiddleware(userRepo, roleRepo, apiKeyRepo, tokenService)

	// Initialize services
	shopifyClient := shopify.NewClient(cfg.ShopifyStoreURL, cfg.ShopifyAccessToken)
	authService := service.NewAuthService(userRepo, roleRepo, tokenService, loginThrottle)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)
	productService := service.NewProductService(productRepo, shopifyClient, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService)
	productHandler := handler.NewProductHandler(productService)
	webhookHandler := handler.NewWebhookHandler(productService, cfg.ShopifyWebhookSecret)

	// Register routes
	router.Register(
		e,
		authMiddleware,
		authHandler,
		userHandler,
		apiKeyHandler,
		productHandler,
		webhookHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/docs/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/docs/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
