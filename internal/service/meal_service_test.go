package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "calorista/internal/errors"
	"calorista/internal/model"
)

// MockMealRepository is a mock implementation of MealRepository.
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) Update(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Meal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

func (m *MockMealRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Meal, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealRepository) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, query string) ([]model.Product, bool, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Bool(1), args.Error(2)
}

func floatPtr(v float64) *float64 { return &v }

func TestMealService_Create(t *testing.T) {
	mockRepo := new(MockMealRepository)
	userID := uuid.New()
	date := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(meal *model.Meal) bool {
		return meal.UserID == userID && meal.Name == "Завтрак" && meal.Date.Equal(date)
	})).Return(nil)

	service := NewMealService(mockRepo, nil)
	meal, err := service.Create(context.Background(), userID, MealInput{
		Name:     "Завтрак",
		Calories: 350,
		Protein:  15.5,
		Carbs:    45.2,
		Fat:      12.8,
		Date:     date,
	})

	require.NoError(t, err)
	assert.Equal(t, userID, meal.UserID)
	assert.InDelta(t, 350, meal.Calories, 0.001)
	mockRepo.AssertExpectations(t)
}

func TestMealService_Create_DefaultsDateToNow(t *testing.T) {
	mockRepo := new(MockMealRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Meal")).Return(nil)

	service := NewMealService(mockRepo, nil)
	meal, err := service.Create(context.Background(), uuid.New(), MealInput{Name: "Lunch", Calories: 500})

	require.NoError(t, err)
	assert.False(t, meal.Date.IsZero())
}

func TestMealService_Get_ForeignMealIsNotFound(t *testing.T) {
	mockRepo := new(MockMealRepository)
	userID := uuid.New()
	mealID := uuid.New()

	// The repository scopes by owner, so someone else's meal simply does not
	// come back.
	mockRepo.On("FindByIDAndUser", mock.Anything, mealID, userID).Return(nil, gorm.ErrRecordNotFound)

	service := NewMealService(mockRepo, nil)
	_, err := service.Get(context.Background(), userID, mealID)

	assert.ErrorIs(t, err, apperrors.ErrMealNotFound)
}

func TestMealService_Update_ForeignMealIsNotFound(t *testing.T) {
	mockRepo := new(MockMealRepository)
	userID := uuid.New()
	mealID := uuid.New()

	mockRepo.On("FindByIDAndUser", mock.Anything, mealID, userID).Return(nil, gorm.ErrRecordNotFound)

	service := NewMealService(mockRepo, nil)
	_, err := service.Update(context.Background(), userID, mealID, MealInput{Name: "X", Calories: 1})

	assert.ErrorIs(t, err, apperrors.ErrMealNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMealService_Delete(t *testing.T) {
	userID := uuid.New()
	mealID := uuid.New()

	t.Run("existing meal deleted", func(t *testing.T) {
		mockRepo := new(MockMealRepository)
		mockRepo.On("DeleteByIDAndUser", mock.Anything, mealID, userID).Return(int64(1), nil)

		service := NewMealService(mockRepo, nil)
		assert.NoError(t, service.Delete(context.Background(), userID, mealID))
	})

	t.Run("zero affected rows means not found", func(t *testing.T) {
		mockRepo := new(MockMealRepository)
		mockRepo.On("DeleteByIDAndUser", mock.Anything, mealID, userID).Return(int64(0), nil)

		service := NewMealService(mockRepo, nil)
		err := service.Delete(context.Background(), userID, mealID)
		assert.ErrorIs(t, err, apperrors.ErrMealNotFound)
	})
}

func TestMealService_CreateFromProduct(t *testing.T) {
	mockRepo := new(MockMealRepository)
	mockProducts := new(MockProductService)
	userID := uuid.New()

	mockProducts.On("GetByBarcode", mock.Anything, "737628064502").Return(&model.Product{
		Barcode:  "737628064502",
		Name:     "Rice Noodles",
		Calories: floatPtr(385),
		Protein:  floatPtr(7.5),
		Fat:      floatPtr(1.5),
		Carbs:    floatPtr(83.3),
	}, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Meal")).Return(nil)

	service := NewMealService(mockRepo, mockProducts)
	meal, err := service.CreateFromProduct(context.Background(), userID, "737628064502", 250, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, "Rice Noodles", meal.Name)
	assert.Equal(t, userID, meal.UserID)
	// 250g of a per-100g product scales every macro by 2.5.
	assert.InDelta(t, 962.5, meal.Calories, 0.001)
	assert.InDelta(t, 18.75, meal.Protein, 0.001)
	assert.InDelta(t, 3.75, meal.Fat, 0.001)
	assert.InDelta(t, 208.25, meal.Carbs, 0.001)
	assert.False(t, meal.Date.IsZero())
}

func TestMealService_CreateFromProduct_MissingMacrosCountAsZero(t *testing.T) {
	mockRepo := new(MockMealRepository)
	mockProducts := new(MockProductService)

	mockProducts.On("GetByBarcode", mock.Anything, "1").Return(&model.Product{
		Barcode:  "1",
		Name:     "Mystery Snack",
		Calories: floatPtr(200),
	}, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Meal")).Return(nil)

	service := NewMealService(mockRepo, mockProducts)
	meal, err := service.CreateFromProduct(context.Background(), uuid.New(), "1", 50, time.Time{})

	require.NoError(t, err)
	assert.InDelta(t, 100, meal.Calories, 0.001)
	assert.Zero(t, meal.Protein)
	assert.Zero(t, meal.Carbs)
	assert.Zero(t, meal.Fat)
}

func TestMealService_CreateFromProduct_UnknownBarcode(t *testing.T) {
	mockRepo := new(MockMealRepository)
	mockProducts := new(MockProductService)

	mockProducts.On("GetByBarcode", mock.Anything, "999").Return(nil, apperrors.ErrProductNotFound)

	service := NewMealService(mockRepo, mockProducts)
	_, err := service.CreateFromProduct(context.Background(), uuid.New(), "999", 100, time.Time{})

	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
