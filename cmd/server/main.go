package main

import (
	"log"
	"net/http"

	_ "calorista/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"calorista/internal/auth"
	"calorista/internal/cache"
	"calorista/internal/config"
	"calorista/internal/db"
	"calorista/internal/handler"
	"calorista/internal/model"
	"calorista/internal/openfoodfacts"
	"calorista/internal/repository"
	"calorista/internal/router"
	"calorista/internal/service"
)

// @title Calorista API
// @version 1.0
// @description Calorie tracking API with Open Food Facts integration, JWT authentication and an API key gate.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// Running with the shipped defaults makes every deployment share the
	// same secrets. Keep serving, but make sure operators see it.
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Println("WARNING: JWT_SECRET is not set, using the insecure built-in default")
	}
	if cfg.APIKey == config.DefaultAPIKey {
		log.Println("WARNING: API_KEY is not set, using the insecure built-in default")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Meal{},
		&model.Product{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	mealRepo := repository.NewMealRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize auth and lookup components
	tokens := auth.NewTokenAuthority(cfg.JWTSecret)
	offClient := openfoodfacts.New(cfg.OFFProductBaseURL, cfg.OFFSearchURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	productService := service.NewProductService(productRepo, offClient, cacheClient)
	mealService := service.NewMealService(mealRepo, productService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	mealHandler := handler.NewMealHandler(mealService)
	productHandler := handler.NewProductHandler(productService, mealService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokens,
		userRepo,
		authHandler,
		mealHandler,
		productHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
