package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jokeruros/fitapp/config"
	"github.com/jokeruros/fitapp/internal/database"
	"github.com/jokeruros/fitapp/internal/models"
	"github.com/jokeruros/fitapp/internal/nutrition"
)

type catalogFood struct {
	Name    string  `json:"name"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
	Grams   float64 `json:"grams"`
}

func main() {
	path := flag.String("file", "data/foods.json", "path to the food catalog JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	var catalog []catalogFood
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Fatalf("Failed to parse catalog file: %v", err)
	}

	created, updated := 0, 0
	for _, entry := range catalog {
		if entry.Name == "" || entry.Grams <= 0 {
			log.Printf("Skipping invalid catalog entry %q", entry.Name)
			continue
		}

		food := models.Food{
			Name:     entry.Name,
			Protein:  entry.Protein,
			Carbs:    entry.Carbs,
			Fats:     entry.Fats,
			Calories: nutrition.CalorieGoal(entry.Protein, entry.Carbs, entry.Fats),
			Grams:    entry.Grams,
			IsSystem: true,
		}

		var existing models.Food
		err := db.Where("name = ? AND is_system = ?", entry.Name, true).First(&existing).Error
		switch {
		case err == nil:
			if err := db.Model(&existing).Updates(map[string]interface{}{
				"protein":  food.Protein,
				"carbs":    food.Carbs,
				"fats":     food.Fats,
				"calories": food.Calories,
				"grams":    food.Grams,
			}).Error; err != nil {
				log.Fatalf("Failed to update food %q: %v", entry.Name, err)
			}
			updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			food.ID = uuid.New()
			if err := db.Create(&food).Error; err != nil {
				log.Fatalf("Failed to create food %q: %v", entry.Name, err)
			}
			created++
		default:
			log.Fatalf("Failed to look up food %q: %v", entry.Name, err)
		}
	}

	log.Printf("Seed complete: %d created, %d updated", created, updated)
}
