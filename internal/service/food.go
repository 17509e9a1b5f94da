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

// FoodService handles catalog operations. The catalog a user sees is the
// union of their own foods and the global read-only system set, own foods
// first.
type FoodService struct {
	db    *gorm.DB
	cache *TotalsCache
}

func NewFoodService(db *gorm.DB, cache *TotalsCache) *FoodService {
	return &FoodService{db: db, cache: cache}
}

// ListFoods returns the user's foods followed by system foods, each group in
// creation order.
func (s *FoodService) ListFoods(ctx context.Context, userID uuid.UUID) ([]models.Food, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR is_system = ?", userID, true).
		Order("is_system asc").
		Order("created_at asc").
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// SearchFoods filters the catalog by a case-insensitive name match, keeping
// the owned-first ordering.
func (s *FoodService) SearchFoods(ctx context.Context, userID uuid.UUID, query string) ([]models.Food, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where("(user_id = ? OR is_system = ?) AND LOWER(name) LIKE ?", userID, true, like).
		Order("is_system asc").
		Order("created_at asc").
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// GetFood returns one catalog entry visible to the user.
func (s *FoodService) GetFood(ctx context.Context, userID, id uuid.UUID) (*models.Food, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	var food models.Food
	err := s.db.WithContext(ctx).
		Where("id = ? AND (user_id = ? OR is_system = ?)", id, userID, true).
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// CreateFood stores a user food. Calories is derived from the macro fields so
// the energy identity holds for every user-created row; system rows loaded
// from the external catalog are exempt and created only by the seeder.
func (s *FoodService) CreateFood(ctx context.Context, userID uuid.UUID, req types.FoodRequest) (*models.Food, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if err := validateFood(req); err != nil {
		return nil, err
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	food := models.Food{
		ID:       id,
		UserID:   &userID,
		Name:     strings.TrimSpace(req.Name),
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Calories: nutrition.CalorieGoal(req.Protein, req.Carbs, req.Fats),
		Grams:    req.Grams,
		IsSystem: false,
	}
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &food, nil
}

// UpdateFood edits a user food. System rows are always rejected. Cached day
// totals are dropped because every meal referencing the food changes with it.
func (s *FoodService) UpdateFood(ctx context.Context, userID, id uuid.UUID, req types.FoodRequest) (*models.Food, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if err := validateFood(req); err != nil {
		return nil, err
	}

	var food models.Food
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if food.IsSystem {
		return nil, ErrSystemFood
	}
	if food.UserID == nil || *food.UserID != userID {
		return nil, ErrNotFound
	}

	food.Name = strings.TrimSpace(req.Name)
	food.Protein = req.Protein
	food.Carbs = req.Carbs
	food.Fats = req.Fats
	food.Grams = req.Grams
	food.Calories = nutrition.CalorieGoal(req.Protein, req.Carbs, req.Fats)

	if err := s.db.WithContext(ctx).Save(&food).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &food, nil
}

// DeleteFood removes a user food. Meal items referencing it stay behind and
// are skipped at aggregation time.
func (s *FoodService) DeleteFood(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrNotAuthenticated
	}

	var food models.Food
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if food.IsSystem {
		return ErrSystemFood
	}
	if food.UserID == nil || *food.UserID != userID {
		return ErrNotFound
	}

	if err := s.db.WithContext(ctx).Delete(&models.Food{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func validateFood(req types.FoodRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.Grams <= 0 {
		return &ValidationError{Field: "grams", Reason: "baseline must be positive"}
	}
	if req.Protein < 0 || req.Carbs < 0 || req.Fats < 0 {
		return &ValidationError{Field: "macros", Reason: "must not be negative"}
	}
	return nil
}
