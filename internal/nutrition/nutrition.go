// Package nutrition implements the scaling and aggregation math. Everything
// here is pure computation over catalog snapshots; no I/O.
package nutrition

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jokeruros/fitapp/internal/models"
)

// kcal per gram of each macro class.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

var (
	ErrInvalidBaseline = errors.New("food baseline grams must be positive")
	ErrNegativeGrams   = errors.New("portion grams must not be negative")
)

// Totals are four independent running sums. No cross-field normalization.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Add returns the field-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fats:     t.Fats + o.Fats,
	}
}

func (t Totals) times(n float64) Totals {
	return Totals{
		Calories: t.Calories * n,
		Protein:  t.Protein * n,
		Carbs:    t.Carbs * n,
		Fats:     t.Fats * n,
	}
}

// Scaled is a food's nutrition mapped to a concrete portion size.
type Scaled struct {
	Totals
	Grams float64 `json:"grams"`
}

// Scale maps a food's per-baseline macros to an arbitrary gram amount.
// A zero portion is legal and yields all-zero nutrition. A non-positive
// baseline means the food record is malformed; such records are rejected at
// creation time, so hitting one here is a caller bug, not a recoverable state.
func Scale(food models.Food, grams float64) (Scaled, error) {
	if food.Grams <= 0 {
		return Scaled{}, ErrInvalidBaseline
	}
	if grams < 0 {
		return Scaled{}, ErrNegativeGrams
	}
	factor := grams / food.Grams
	return Scaled{
		Totals: Totals{
			Calories: food.Calories * factor,
			Protein:  food.Protein * factor,
			Carbs:    food.Carbs * factor,
			Fats:     food.Fats * factor,
		},
		Grams: grams,
	}, nil
}

// CatalogIndex builds an id lookup over a catalog snapshot.
func CatalogIndex(foods []models.Food) map[uuid.UUID]models.Food {
	index := make(map[uuid.UUID]models.Food, len(foods))
	for _, f := range foods {
		index[f.ID] = f
	}
	return index
}

// MealTotals sums the scaled nutrition of every item in the meal. Items whose
// food reference no longer resolves are skipped: a food can be deleted while
// historical meals still point at it, and that drift is accepted data, not an
// error.
func MealTotals(meal models.Meal, index map[uuid.UUID]models.Food) Totals {
	var totals Totals
	for _, item := range meal.Items {
		food, ok := index[item.FoodID]
		if !ok {
			continue
		}
		scaled, err := Scale(food, item.Grams)
		if err != nil {
			continue
		}
		totals = totals.Add(scaled.Totals)
	}
	return totals
}

// DayTotals sums meal totals across the day, each multiplied by the meal's
// eaten count.
func DayTotals(meals []models.Meal, index map[uuid.UUID]models.Food) Totals {
	var totals Totals
	for _, meal := range meals {
		if meal.Eaten <= 0 {
			continue
		}
		totals = totals.Add(MealTotals(meal, index).times(float64(meal.Eaten)))
	}
	return totals
}

// CalorieGoal derives the implied calorie target from the macro targets.
func CalorieGoal(protein, carbs, fats float64) float64 {
	return protein*KcalPerGramProtein + carbs*KcalPerGramCarbs + fats*KcalPerGramFat
}
