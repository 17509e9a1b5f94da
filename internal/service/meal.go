package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jokeruros/fitapp/internal/models"
	"github.com/jokeruros/fitapp/internal/nutrition"
	"github.com/jokeruros/fitapp/internal/types"
)

// MealService handles meal and meal-item operations plus the pull-based
// aggregation over the user's catalog.
type MealService struct {
	db    *gorm.DB
	cache *TotalsCache
}

func NewMealService(db *gorm.DB, cache *TotalsCache) *MealService {
	return &MealService{db: db, cache: cache}
}

// ListMeals returns the user's meals in creation order, items included.
func (s *MealService) ListMeals(ctx context.Context, userID uuid.UUID) ([]models.Meal, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// CreateMeal stores a new empty meal.
func (s *MealService) CreateMeal(ctx context.Context, userID uuid.UUID, req types.MealRequest) (*models.Meal, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	meal := models.Meal{
		ID:     id,
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Eaten:  0,
	}
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &meal, nil
}

// RenameMeal updates the meal's name.
func (s *MealService) RenameMeal(ctx context.Context, userID, mealID uuid.UUID, name string) (*models.Meal, error) {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	meal.Name = strings.TrimSpace(name)
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// AdjustEaten changes the consumption count by delta, clamping at zero.
// Decrementing past zero is a no-op, not an error.
func (s *MealService) AdjustEaten(ctx context.Context, userID, mealID uuid.UUID, delta int) (*models.Meal, error) {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	eaten := meal.Eaten + delta
	if eaten < 0 {
		eaten = 0
	}
	meal.Eaten = eaten
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return meal, nil
}

// DeleteMeal removes a meal and cascades to its items.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	if _, err := s.ownedMeal(ctx, userID, mealID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meal{}, "id = ?", mealID).Error
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// AddItem appends a food portion to the meal.
func (s *MealService) AddItem(ctx context.Context, userID, mealID uuid.UUID, req types.MealItemRequest) (*models.MealItem, error) {
	if _, err := s.ownedMeal(ctx, userID, mealID); err != nil {
		return nil, err
	}
	if req.Grams < 0 {
		return nil, &ValidationError{Field: "grams", Reason: "must not be negative"}
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	item := models.MealItem{
		ID:     id,
		MealID: mealID,
		FoodID: req.FoodID,
		Grams:  req.Grams,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &item, nil
}

// ResizeItem changes an item's portion. The item keeps no macro snapshot, so
// the new nutrition falls out of the next aggregation automatically.
func (s *MealService) ResizeItem(ctx context.Context, userID, mealID, itemID uuid.UUID, grams float64) (*models.MealItem, error) {
	if _, err := s.ownedMeal(ctx, userID, mealID); err != nil {
		return nil, err
	}
	if grams < 0 {
		return nil, &ValidationError{Field: "grams", Reason: "must not be negative"}
	}

	var item models.MealItem
	err := s.db.WithContext(ctx).Where("id = ? AND meal_id = ?", itemID, mealID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	item.Grams = grams
	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &item, nil
}

// RemoveItem deletes one item from the meal.
func (s *MealService) RemoveItem(ctx context.Context, userID, mealID, itemID uuid.UUID) error {
	if _, err := s.ownedMeal(ctx, userID, mealID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND meal_id = ?", itemID, mealID).Delete(&models.MealItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// MealTotals computes one meal's totals against the user's current catalog.
func (s *MealService) MealTotals(ctx context.Context, userID, mealID uuid.UUID) (nutrition.Totals, error) {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return nutrition.Totals{}, err
	}
	index, err := s.catalogIndex(ctx, userID)
	if err != nil {
		return nutrition.Totals{}, err
	}
	return nutrition.MealTotals(*meal, index), nil
}

// DayTotals computes the day's consumed totals across all meals, weighted by
// eaten counts. Results are cached per user when a cache is configured.
func (s *MealService) DayTotals(ctx context.Context, userID uuid.UUID) (nutrition.Totals, error) {
	if userID == uuid.Nil {
		return nutrition.Totals{}, ErrNotAuthenticated
	}
	if totals, ok := s.cache.Get(ctx, userID); ok {
		return totals, nil
	}

	meals, err := s.ListMeals(ctx, userID)
	if err != nil {
		return nutrition.Totals{}, err
	}
	index, err := s.catalogIndex(ctx, userID)
	if err != nil {
		return nutrition.Totals{}, err
	}

	totals := nutrition.DayTotals(meals, index)
	s.cache.Set(ctx, userID, totals)
	return totals, nil
}

func (s *MealService) catalogIndex(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR is_system = ?", userID, true).
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return nutrition.CatalogIndex(foods), nil
}

func (s *MealService) ownedMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}
