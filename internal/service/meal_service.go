package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "calorista/internal/errors"
	"calorista/internal/model"
	"calorista/internal/repository"
)

// MealInput carries the writable fields of a meal.
type MealInput struct {
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Date     time.Time
}

// MealService handles meal CRUD. The owner id always comes from the
// authenticated request, never from the client payload, and every operation
// is scoped to it. A meal owned by someone else is indistinguishable from a
// missing one.
type MealService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Meal, error)
	Get(ctx context.Context, userID, mealID uuid.UUID) (*model.Meal, error)
	Create(ctx context.Context, userID uuid.UUID, input MealInput) (*model.Meal, error)
	Update(ctx context.Context, userID, mealID uuid.UUID, input MealInput) (*model.Meal, error)
	Delete(ctx context.Context, userID, mealID uuid.UUID) error
	CreateFromProduct(ctx context.Context, userID uuid.UUID, barcode string, quantityGrams float64, date time.Time) (*model.Meal, error)
}

type mealService struct {
	mealRepo repository.MealRepository
	products ProductService
}

// NewMealService creates a new meal service.
func NewMealService(mealRepo repository.MealRepository, products ProductService) MealService {
	return &mealService{
		mealRepo: mealRepo,
		products: products,
	}
}

func (s *mealService) List(ctx context.Context, userID uuid.UUID) ([]model.Meal, error) {
	meals, err := s.mealRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

func (s *mealService) Get(ctx context.Context, userID, mealID uuid.UUID) (*model.Meal, error) {
	meal, err := s.mealRepo.FindByIDAndUser(ctx, mealID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMealNotFound
		}
		return nil, fmt.Errorf("find meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) Create(ctx context.Context, userID uuid.UUID, input MealInput) (*model.Meal, error) {
	meal := &model.Meal{
		UserID:   userID,
		Name:     input.Name,
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Date:     input.Date,
	}
	if meal.Date.IsZero() {
		meal.Date = time.Now()
	}
	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) Update(ctx context.Context, userID, mealID uuid.UUID, input MealInput) (*model.Meal, error) {
	meal, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	meal.Name = input.Name
	meal.Calories = input.Calories
	meal.Protein = input.Protein
	meal.Carbs = input.Carbs
	meal.Fat = input.Fat
	if !input.Date.IsZero() {
		meal.Date = input.Date
	}

	if err := s.mealRepo.Update(ctx, meal); err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return meal, nil
}

func (s *mealService) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	affected, err := s.mealRepo.DeleteByIDAndUser(ctx, mealID, userID)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrMealNotFound
	}
	return nil
}

// CreateFromProduct logs a meal derived from a product and a quantity in
// grams: each per-100g macro is scaled by quantity/100. Macros absent on the
// product count as zero.
func (s *mealService) CreateFromProduct(ctx context.Context, userID uuid.UUID, barcode string, quantityGrams float64, date time.Time) (*model.Meal, error) {
	product, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	factor := quantityGrams / 100
	meal := &model.Meal{
		UserID:   userID,
		Name:     product.Name,
		Calories: scale(product.Calories, factor),
		Protein:  scale(product.Protein, factor),
		Carbs:    scale(product.Carbs, factor),
		Fat:      scale(product.Fat, factor),
		Date:     date,
	}
	if meal.Date.IsZero() {
		meal.Date = time.Now()
	}

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("create meal from product: %w", err)
	}
	return meal, nil
}

func scale(v *float64, factor float64) float64 {
	if v == nil {
		return 0
	}
	return *v * factor
}
