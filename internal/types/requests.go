package types

import (
	"fmt"

	"github.com/google/uuid"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// FoodRequest represents the request body for creating or updating a user
// food. Calories is deliberately absent: it is derived from the macro fields
// (4/4/9) so the stored row always satisfies the energy identity.
type FoodRequest struct {
	ID      uuid.UUID `json:"id"` // optional, client-generated
	Name    string    `json:"name" binding:"required"`
	Protein float64   `json:"protein" binding:"gte=0"`
	Carbs   float64   `json:"carbs" binding:"gte=0"`
	Fats    float64   `json:"fats" binding:"gte=0"`
	Grams   float64   `json:"grams" binding:"required,gt=0"`
}

// GoalsRequest represents the request body for updating daily targets.
// The calorie target is derived, never accepted as input.
type GoalsRequest struct {
	Protein float64 `json:"protein" binding:"gte=0"`
	Carbs   float64 `json:"carbs" binding:"gte=0"`
	Fats    float64 `json:"fats" binding:"gte=0"`
}

// MealRequest represents the request body for creating or renaming a meal
type MealRequest struct {
	ID   uuid.UUID `json:"id"` // optional, client-generated
	Name string    `json:"name" binding:"required"`
}

// MealItemRequest represents the request body for adding or resizing an item
type MealItemRequest struct {
	ID     uuid.UUID `json:"id"` // optional, client-generated
	FoodID uuid.UUID `json:"food_id" binding:"required"`
	Grams  float64   `json:"grams" binding:"gte=0"`
}

// GramsRequest resizes an existing item's portion
type GramsRequest struct {
	Grams float64 `json:"grams" binding:"gte=0"`
}

// EatenRequest adjusts a meal's consumption count by a signed delta
type EatenRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SyncRequest carries the client's complete in-memory meal list. The list is
// the source of truth; the store is reconciled to match it exactly.
type SyncRequest struct {
	Meals []SyncMeal `json:"meals"`
}

// SyncMeal is one meal in a sync payload. Items is the authoritative
// reference shape; Foods accepts the historical inline-scaled shape and is
// only consulted when Items is empty.
type SyncMeal struct {
	ID    uuid.UUID        `json:"id" binding:"required"`
	Name  string           `json:"name"`
	Eaten int              `json:"eaten"`
	Items []SyncItem       `json:"items"`
	Foods []LegacyMealFood `json:"foods,omitempty"`
}

// SyncItem is the reference-shaped meal item: food id plus portion grams.
type SyncItem struct {
	ID     uuid.UUID `json:"id"`
	FoodID uuid.UUID `json:"food_id" binding:"required"`
	Grams  float64   `json:"grams" binding:"gte=0"`
}

// LegacyMealFood is the historical item shape that inlined a scaled food copy
// directly into the meal. Only the food reference and portion survive
// normalization; the macro snapshot is discarded and recomputed from the
// catalog at read time.
type LegacyMealFood struct {
	ID    uuid.UUID `json:"id"`
	Grams float64   `json:"grams"`
}

// NormalizedItems returns the meal's items in the reference shape. Legacy
// inline entries get deterministic item ids derived from the meal id and
// entry position, so re-syncing the same legacy payload stays idempotent.
func (m SyncMeal) NormalizedItems() []SyncItem {
	if len(m.Items) > 0 || len(m.Foods) == 0 {
		return m.Items
	}
	items := make([]SyncItem, 0, len(m.Foods))
	for i, f := range m.Foods {
		items = append(items, SyncItem{
			ID:     uuid.NewSHA1(m.ID, []byte(fmt.Sprintf("%s:%d", f.ID, i))),
			FoodID: f.ID,
			Grams:  f.Grams,
		})
	}
	return items
}
