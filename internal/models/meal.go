package models

import (
	"time"

	"github.com/google/uuid"
)

// Meal is a named, repeatable composition of food portions. Eaten counts how
// many times the meal was consumed that day and multiplies its contribution
// to the daily totals.
type Meal struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Eaten     int        `gorm:"not null;default:0" json:"eaten"`
	Items     []MealItem `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meals"
}

// MealItem references a catalog food by id and records the portion actually
// consumed. It carries no macro values of its own; nutrition is derived by
// scaling the referenced food at read time.
type MealItem struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	MealID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"meal_id"`
	FoodID    uuid.UUID `gorm:"type:varchar(36);not null" json:"food_id"`
	Grams     float64   `gorm:"not null" json:"grams"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MealItem) TableName() string {
	return "meal_items"
}
