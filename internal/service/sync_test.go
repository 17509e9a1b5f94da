package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeruros/fitapp/internal/models"
	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/testhelpers"
	"github.com/jokeruros/fitapp/internal/types"
)

func syncMeal(name string, eaten int, items ...types.SyncItem) types.SyncMeal {
	return types.SyncMeal{
		ID:    uuid.New(),
		Name:  name,
		Eaten: eaten,
		Items: items,
	}
}

func syncItem(foodID uuid.UUID, grams float64) types.SyncItem {
	return types.SyncItem{ID: uuid.New(), FoodID: foodID, Grams: grams}
}

func persistedMealIDs(t *testing.T, svc *service.MealService, userID uuid.UUID) []uuid.UUID {
	t.Helper()
	meals, err := svc.ListMeals(context.Background(), userID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestSyncMealsDeletesStaleAndUpserts(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateTestFood(t, db, userID, "Oats", 13, 68, 7, 387)

	syncSvc := service.NewSyncService(db, nil, nil)
	mealSvc := service.NewMealService(db, nil)
	ctx := context.Background()

	mealA := syncMeal("Breakfast", 1, syncItem(food.ID, 80))
	mealC := syncMeal("Dinner", 2, syncItem(food.ID, 120), syncItem(food.ID, 40))

	// Persist [A, C].
	_, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{mealA, mealC}, service.SyncOptions{})
	require.NoError(t, err)

	// Reconcile local [A, B] against persisted [A, C]: C and its items go,
	// A and B are upserted.
	mealB := syncMeal("Lunch", 0, syncItem(food.ID, 150))
	report, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{mealA, mealB}, service.SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DeletedMeals)
	assert.Equal(t, 2, report.DeletedItems)
	assert.Equal(t, 2, report.UpsertedMeals)
	assert.Equal(t, 2, report.UpsertedItems)
	assert.Empty(t, report.Failures)

	ids := persistedMealIDs(t, mealSvc, userID)
	assert.ElementsMatch(t, []uuid.UUID{mealA.ID, mealB.ID}, ids)

	// Cascade: no orphan items remain for the deleted meal.
	var orphans int64
	require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", mealC.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestSyncMealsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateTestFood(t, db, userID, "Rice", 7, 77, 1, 345)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	meals := []types.SyncMeal{
		syncMeal("Lunch", 1, syncItem(food.ID, 200)),
		syncMeal("Snack", 3, syncItem(food.ID, 50), syncItem(food.ID, 25)),
	}

	first, err := syncSvc.SyncMeals(ctx, userID, meals, service.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.UpsertedMeals)

	second, err := syncSvc.SyncMeals(ctx, userID, meals, service.SyncOptions{})
	require.NoError(t, err)

	// Second run over an unchanged list produces an empty delete set.
	assert.Zero(t, second.DeletedMeals)
	assert.Zero(t, second.DeletedItems)
	assert.Empty(t, second.Failures)

	// And the upserts are value no-ops.
	var meal models.Meal
	require.NoError(t, db.Preload("Items").First(&meal, "id = ?", meals[0].ID).Error)
	assert.Equal(t, "Lunch", meal.Name)
	assert.Equal(t, 1, meal.Eaten)
	require.Len(t, meal.Items, 1)
	assert.Equal(t, float64(200), meal.Items[0].Grams)
}

func TestSyncMealsItemLevelDiff(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateTestFood(t, db, userID, "Egg", 13, 1, 11, 155)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	keep := syncItem(food.ID, 60)
	drop := syncItem(food.ID, 120)
	meal := syncMeal("Breakfast", 1, keep, drop)

	_, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{meal}, service.SyncOptions{})
	require.NoError(t, err)

	// Drop one item, resize the other, add a fresh client-generated one.
	keep.Grams = 90
	added := syncItem(food.ID, 30)
	meal.Items = []types.SyncItem{keep, added}

	report, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{meal}, service.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.DeletedItems)

	var items []models.MealItem
	require.NoError(t, db.Where("meal_id = ?", meal.ID).Find(&items).Error)
	require.Len(t, items, 2)

	byID := map[uuid.UUID]models.MealItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.Equal(t, float64(90), byID[keep.ID].Grams)
	assert.Equal(t, float64(30), byID[added.ID].Grams)
	assert.NotContains(t, byID, drop.ID)
}

func TestSyncMealsDoesNotTouchOtherUsers(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateTestUser(t, db)
	bob := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateSystemFood(t, db, "Bread", 9, 49, 3, 265)

	syncSvc := service.NewSyncService(db, nil, nil)
	mealSvc := service.NewMealService(db, nil)
	ctx := context.Background()

	bobMeal := syncMeal("Bob dinner", 1, syncItem(food.ID, 100))
	_, err := syncSvc.SyncMeals(ctx, bob, []types.SyncMeal{bobMeal}, service.SyncOptions{})
	require.NoError(t, err)

	// Alice syncs an empty list; only her meals may be deleted.
	_, err = syncSvc.SyncMeals(ctx, alice, nil, service.SyncOptions{})
	require.NoError(t, err)

	bobIDs := persistedMealIDs(t, mealSvc, bob)
	assert.Equal(t, []uuid.UUID{bobMeal.ID}, bobIDs)
}

func TestSyncMealsRejectsForeignMealID(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateTestUser(t, db)
	bob := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateSystemFood(t, db, "Milk", 3, 5, 3, 60)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	bobMeal := syncMeal("Bob lunch", 1, syncItem(food.ID, 250))
	_, err := syncSvc.SyncMeals(ctx, bob, []types.SyncMeal{bobMeal}, service.SyncOptions{})
	require.NoError(t, err)

	// Alice claims Bob's meal id; the meal must fail, not be hijacked.
	hijack := bobMeal
	hijack.Name = "Hijacked"
	report, err := syncSvc.SyncMeals(ctx, alice, []types.SyncMeal{hijack}, service.SyncOptions{})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, bobMeal.ID, report.Failures[0].MealID)

	var meal models.Meal
	require.NoError(t, db.Preload("Items").First(&meal, "id = ?", bobMeal.ID).Error)
	assert.Equal(t, "Bob lunch", meal.Name)
	assert.Equal(t, bob, meal.UserID)
	require.Len(t, meal.Items, 1)
	assert.Equal(t, float64(250), meal.Items[0].Grams)

	// Hijacking with an empty item list must not plan Bob's items away.
	hijack.Items = nil
	_, err = syncSvc.SyncMeals(ctx, alice, []types.SyncMeal{hijack}, service.SyncOptions{})
	require.NoError(t, err)

	var itemCount int64
	require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", bobMeal.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestSyncMealsRejectsForeignItemID(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateTestUser(t, db)
	bob := testhelpers.CreateTestUser(t, db)
	bread := testhelpers.CreateSystemFood(t, db, "Bread", 9, 49, 3, 265)
	lard := testhelpers.CreateSystemFood(t, db, "Lard", 0, 0, 100, 900)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	bobItem := syncItem(bread.ID, 100)
	bobMeal := syncMeal("Bob toast", 1, bobItem)
	_, err := syncSvc.SyncMeals(ctx, bob, []types.SyncMeal{bobMeal}, service.SyncOptions{})
	require.NoError(t, err)

	// Alice reuses Bob's item id inside her own fresh meal. The meal must
	// fail; Bob's row may not be rewritten in place.
	aliceMeal := syncMeal("Alice meal", 1, types.SyncItem{ID: bobItem.ID, FoodID: lard.ID, Grams: 999})
	report, err := syncSvc.SyncMeals(ctx, alice, []types.SyncMeal{aliceMeal}, service.SyncOptions{})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, aliceMeal.ID, report.Failures[0].MealID)
	assert.Zero(t, report.UpsertedMeals)

	var item models.MealItem
	require.NoError(t, db.First(&item, "id = ?", bobItem.ID).Error)
	assert.Equal(t, bobMeal.ID, item.MealID)
	assert.Equal(t, bread.ID, item.FoodID)
	assert.Equal(t, float64(100), item.Grams)

	// The failed meal's transaction rolled back entirely.
	var count int64
	require.NoError(t, db.Model(&models.Meal{}).Where("id = ?", aliceMeal.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSyncMealsMovesItemBetweenOwnMeals(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateTestFood(t, db, userID, "Cottage cheese", 11, 3, 4, 92)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	item := syncItem(food.ID, 150)
	source := syncMeal("Lunch", 1, item)
	dest := syncMeal("Dinner", 1)
	_, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{source, dest}, service.SyncOptions{})
	require.NoError(t, err)

	// The client drags the item from one meal to the other and re-syncs.
	source.Items = nil
	dest.Items = []types.SyncItem{item}
	_, err = syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{source, dest}, service.SyncOptions{})
	require.NoError(t, err)

	var stored models.MealItem
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, dest.ID, stored.MealID)

	var sourceItems int64
	require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", source.ID).Count(&sourceItems).Error)
	assert.Zero(t, sourceItems)
}

func TestSyncMealsStopOnError(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateTestUser(t, db)
	bob := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateSystemFood(t, db, "Butter", 1, 0, 81, 733)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	bobMeal := syncMeal("Bob meal", 1, syncItem(food.ID, 10))
	_, err := syncSvc.SyncMeals(ctx, bob, []types.SyncMeal{bobMeal}, service.SyncOptions{})
	require.NoError(t, err)

	_, err = syncSvc.SyncMeals(ctx, alice, []types.SyncMeal{bobMeal}, service.SyncOptions{StopOnError: true})
	assert.Error(t, err)
}

func TestSyncMealsNormalizesLegacyShape(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)
	food := testhelpers.CreateTestFood(t, db, userID, "Tuna", 25, 0, 1, 109)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	legacy := types.SyncMeal{
		ID:    uuid.New(),
		Name:  "Old payload",
		Eaten: 1,
		Foods: []types.LegacyMealFood{{ID: food.ID, Grams: 140}},
	}

	_, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{legacy}, service.SyncOptions{})
	require.NoError(t, err)

	var items []models.MealItem
	require.NoError(t, db.Where("meal_id = ?", legacy.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, food.ID, items[0].FoodID)
	assert.Equal(t, float64(140), items[0].Grams)

	// Re-syncing the same legacy payload is still idempotent: the derived
	// item ids are deterministic, so nothing is deleted.
	report, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{legacy}, service.SyncOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.DeletedItems)
}

func TestSyncMealsClampsNegativeEaten(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	userID := testhelpers.CreateTestUser(t, db)

	syncSvc := service.NewSyncService(db, nil, nil)
	ctx := context.Background()

	meal := syncMeal("Negative", -3)
	_, err := syncSvc.SyncMeals(ctx, userID, []types.SyncMeal{meal}, service.SyncOptions{})
	require.NoError(t, err)

	var stored models.Meal
	require.NoError(t, db.First(&stored, "id = ?", meal.ID).Error)
	assert.Equal(t, 0, stored.Eaten)
}

func TestSyncMealsRequiresIdentity(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	syncSvc := service.NewSyncService(db, nil, nil)

	_, err := syncSvc.SyncMeals(context.Background(), uuid.Nil, nil, service.SyncOptions{})
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)
}
