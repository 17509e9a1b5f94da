package database

import (
	"gorm.io/gorm"

	"github.com/jokeruros/fitapp/internal/models"
)

// Migrate brings the schema up to date. GORM auto-migration covers both the
// Postgres deployment and the sqlite test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.Meal{},
		&models.MealItem{},
		&models.Goals{},
	)
}
