package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "calorista/internal/errors"
	"calorista/internal/middleware"
	"calorista/internal/model"
	"calorista/internal/service"
)

// ProductHandler handles product lookup and product-derived meal endpoints.
type ProductHandler struct {
	productService service.ProductService
	mealService    service.MealService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, mealService service.MealService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		mealService:    mealService,
	}
}

// ProductSearchResponse represents a product search result. FromCache tells
// whether the products came from the local store or from Open Food Facts.
type ProductSearchResponse struct {
	Products  []model.Product `json:"products"`
	Total     int             `json:"total"`
	FromCache bool            `json:"from_cache"`
}

// MealFromProductRequest derives a meal from a stored product: every per-100g
// macro is scaled by quantity/100.
type MealFromProductRequest struct {
	ProductBarcode string    `json:"product_barcode" validate:"required"`
	Quantity       float64   `json:"quantity" validate:"required,gt=0"`
	Date           time.Time `json:"date,omitempty"`
}

// Search godoc
// @Summary Search products by name or brand
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param query query string true "Search text"
// @Success 200 {object} ProductSearchResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "query parameter is required",
			Code:  "MISSING_QUERY",
		})
	}

	products, fromCache, err := h.productService.Search(c.Request().Context(), query)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ProductSearchResponse{
		Products:  products,
		Total:     len(products),
		FromCache: fromCache,
	})
}

// GetByBarcode godoc
// @Summary Get a product by barcode
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param barcode path string true "Product barcode"
// @Success 200 {object} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c echo.Context) error {
	barcode := c.Param("barcode")

	product, err := h.productService.GetByBarcode(c.Request().Context(), barcode)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, product)
}

// CreateMeal godoc
// @Summary Log a meal derived from a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MealFromProductRequest true "Barcode and quantity in grams"
// @Success 200 {object} model.Meal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /products/meal [post]
func (h *ProductHandler) CreateMeal(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	var req MealFromProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meal, err := h.mealService.CreateFromProduct(c.Request().Context(), user.ID, req.ProductBarcode, req.Quantity, req.Date)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, meal)
}
