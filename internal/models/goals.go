package models

import (
	"time"

	"github.com/google/uuid"
)

// Goals is the single per-user daily target row. Calories is derived from the
// macro targets (4/4/9 kcal per gram) and never accepted as direct input.
type Goals struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Protein   float64   `gorm:"not null;default:0" json:"protein"`
	Carbs     float64   `gorm:"not null;default:0" json:"carbs"`
	Fats      float64   `gorm:"not null;default:0" json:"fats"`
	Calories  float64   `gorm:"not null;default:0" json:"calories"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Goals) TableName() string {
	return "goals"
}
