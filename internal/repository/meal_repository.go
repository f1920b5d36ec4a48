package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"calorista/internal/model"
)

// MealRepository defines meal persistence operations. Every query is scoped
// by user id; there is deliberately no way to load a meal without an owner.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	Update(ctx context.Context, meal *model.Meal) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Meal, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Meal, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type mealRepository struct {
	db *gorm.DB
}

// NewMealRepository builds a GORM-backed repository.
func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *model.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *mealRepository) Update(ctx context.Context, meal *model.Meal) error {
	return r.db.WithContext(ctx).Save(meal).Error
}

func (r *mealRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Meal, error) {
	var meals []model.Meal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Meal, error) {
	var meal model.Meal
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// DeleteByIDAndUser removes the meal and reports how many rows were affected,
// so callers can distinguish a real delete from a miss without a prior read.
func (r *mealRepository) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Meal{})
	return res.RowsAffected, res.Error
}
