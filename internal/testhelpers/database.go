package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jokeruros/fitapp/internal/database"
	"github.com/jokeruros/fitapp/internal/models"
)

// SetupTestDatabase creates an in-memory sqlite database with the full schema
// migrated. Each call gets an isolated database.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestUser inserts a user row and returns its id.
func CreateTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.ID
}

// CreateTestFood inserts a user-owned food with the given macros per 100g.
func CreateTestFood(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, protein, carbs, fats, calories float64) models.Food {
	t.Helper()

	food := models.Food{
		ID:       uuid.New(),
		UserID:   &userID,
		Name:     name,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
		Calories: calories,
		Grams:    100,
	}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("failed to create test food: %v", err)
	}
	return food
}

// CreateSystemFood inserts a read-only system catalog row.
func CreateSystemFood(t *testing.T, db *gorm.DB, name string, protein, carbs, fats, calories float64) models.Food {
	t.Helper()

	food := models.Food{
		ID:       uuid.New(),
		Name:     name,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
		Calories: calories,
		Grams:    100,
		IsSystem: true,
	}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("failed to create system food: %v", err)
	}
	return food
}
