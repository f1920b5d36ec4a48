package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"calorista/internal/auth"
	"calorista/internal/config"
	"calorista/internal/handler"
	appmw "calorista/internal/middleware"
	"calorista/internal/repository"
)

// Register wires routes and middleware. The API key gate covers everything
// except /health and /swagger; bearer auth additionally covers everything
// except register and login.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenAuthority,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	mealHandler *handler.MealHandler,
	productHandler *handler.ProductHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(appmw.APIKey(cfg.APIKey))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes (API key only)
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Bearer-protected routes
	requireJWT := appmw.JWT(tokens)
	resolveUser := appmw.ResolveUser(userRepo)

	me := authGroup.Group("", requireJWT, resolveUser)
	me.GET("/me", authHandler.Me)
	me.PUT("/me", authHandler.UpdateMe)

	meals := e.Group("/meals", requireJWT, resolveUser)
	meals.GET("", mealHandler.List)
	meals.POST("", mealHandler.Create)
	meals.GET("/:id", mealHandler.Get)
	meals.PUT("/:id", mealHandler.Update)
	meals.DELETE("/:id", mealHandler.Delete)

	products := e.Group("/products", requireJWT, resolveUser)
	products.GET("/search", productHandler.Search)
	products.GET("/barcode/:barcode", productHandler.GetByBarcode)
	products.POST("/meal", productHandler.CreateMeal)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
