package models

import (
	"time"

	"github.com/google/uuid"
)

// Food holds nutrition facts per Grams baseline (commonly 100g). System rows
// have IsSystem set, no owning user, and are read-only; user rows belong to
// exactly one user.
type Food struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Protein   float64    `gorm:"not null;default:0" json:"protein"`
	Carbs     float64    `gorm:"not null;default:0" json:"carbs"`
	Fats      float64    `gorm:"not null;default:0" json:"fats"`
	Calories  float64    `gorm:"not null;default:0" json:"calories"`
	Grams     float64    `gorm:"not null" json:"grams"`
	IsSystem  bool       `gorm:"not null;default:false;index" json:"is_system"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Food) TableName() string {
	return "foods"
}
