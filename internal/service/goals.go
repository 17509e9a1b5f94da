package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jokeruros/fitapp/internal/models"
	"github.com/jokeruros/fitapp/internal/nutrition"
	"github.com/jokeruros/fitapp/internal/types"
)

// Default daily targets for users who never saved goals.
const (
	defaultProteinGoal = 150
	defaultCarbsGoal   = 300
	defaultFatsGoal    = 70
)

// GoalsService manages the single per-user daily target row. The calorie
// target is always recomputed from the macro targets, never taken as input.
type GoalsService struct {
	db *gorm.DB
}

func NewGoalsService(db *gorm.DB) *GoalsService {
	return &GoalsService{db: db}
}

// GetGoals returns the stored goals, or the defaults when none were saved.
func (s *GoalsService) GetGoals(ctx context.Context, userID uuid.UUID) (*models.Goals, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	var goals models.Goals
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goals).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Goals{
			UserID:   userID,
			Protein:  defaultProteinGoal,
			Carbs:    defaultCarbsGoal,
			Fats:     defaultFatsGoal,
			Calories: nutrition.CalorieGoal(defaultProteinGoal, defaultCarbsGoal, defaultFatsGoal),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

// UpdateGoals upserts the macro targets and recomputes the calorie target.
func (s *GoalsService) UpdateGoals(ctx context.Context, userID uuid.UUID, req types.GoalsRequest) (*models.Goals, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if req.Protein < 0 || req.Carbs < 0 || req.Fats < 0 {
		return nil, &ValidationError{Field: "goals", Reason: "targets must not be negative"}
	}

	goals := models.Goals{
		UserID:   userID,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Calories: nutrition.CalorieGoal(req.Protein, req.Carbs, req.Fats),
	}

	// Atomic insert-or-replace keyed by user_id; concurrent saves must not
	// race a find-then-create.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"protein", "carbs", "fats", "calories", "updated_at"}),
	}).Create(&goals).Error
	if err != nil {
		return nil, err
	}
	return &goals, nil
}
