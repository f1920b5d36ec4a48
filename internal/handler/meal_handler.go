package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "calorista/internal/errors"
	"calorista/internal/middleware"
	"calorista/internal/model"
	"calorista/internal/service"
)

// MealHandler handles meal CRUD endpoints. The owner is always the
// authenticated user; client payloads cannot name one.
type MealHandler struct {
	mealService service.MealService
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(mealService service.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// MealRequest represents a meal create or update payload.
type MealRequest struct {
	Name     string    `json:"name" validate:"required"`
	Calories float64   `json:"calories" validate:"required,gt=0"`
	Protein  float64   `json:"protein" validate:"gte=0"`
	Carbs    float64   `json:"carbs" validate:"gte=0"`
	Fat      float64   `json:"fat" validate:"gte=0"`
	Date     time.Time `json:"date,omitempty"`
}

func (r MealRequest) toInput() service.MealInput {
	return service.MealInput{
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Date:     r.Date,
	}
}

// MealListResponse represents a list of meals.
type MealListResponse struct {
	Meals []model.Meal `json:"meals"`
	Total int          `json:"total"`
}

// List godoc
// @Summary List the authenticated user's meals
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MealListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /meals [get]
func (h *MealHandler) List(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	meals, err := h.mealService.List(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MealListResponse{Meals: meals, Total: len(meals)})
}

// Get godoc
// @Summary Get one meal by id
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} model.Meal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /meals/{id} [get]
func (h *MealHandler) Get(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidMealID()
	}

	meal, err := h.mealService.Get(c.Request().Context(), user.ID, mealID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, meal)
}

// Create godoc
// @Summary Log a new meal
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MealRequest true "Meal data"
// @Success 200 {object} model.Meal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /meals [post]
func (h *MealHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	var req MealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meal, err := h.mealService.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, meal)
}

// Update godoc
// @Summary Update a meal
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Param request body MealRequest true "Meal data"
// @Success 200 {object} model.Meal
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /meals/{id} [put]
func (h *MealHandler) Update(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidMealID()
	}

	var req MealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	meal, err := h.mealService.Update(c.Request().Context(), user.ID, mealID, req.toInput())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, meal)
}

// Delete godoc
// @Summary Delete a meal
// @Tags meals
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /meals/{id} [delete]
func (h *MealHandler) Delete(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorizedResponse()
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidMealID()
	}

	if err := h.mealService.Delete(c.Request().Context(), user.ID, mealID); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

func unauthorizedResponse() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "unauthorized",
		Code:  "UNAUTHORIZED",
	})
}

func invalidMealID() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid meal ID",
		Code:  "INVALID_UUID",
	})
}
