package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jokeruros/fitapp/internal/models"
	"github.com/jokeruros/fitapp/internal/types"
)

const syncLeaseTTL = 30 * time.Second

// SyncOptions tunes a reconciliation run.
type SyncOptions struct {
	// StopOnError aborts the batch at the first per-meal failure instead of
	// collecting failures and continuing. Off by default: one broken meal
	// must not block reconciliation of the others.
	StopOnError bool

	// Concurrency bounds how many independent meals are reconciled in
	// parallel. Values below 1 mean sequential. Operations for the same meal
	// never overlap regardless.
	Concurrency int
}

// MealError records one meal's reconciliation failure.
type MealError struct {
	MealID uuid.UUID `json:"meal_id"`
	Reason string    `json:"reason"`
}

// Report summarizes what a reconciliation run changed.
type Report struct {
	DeletedMeals  int         `json:"deleted_meals"`
	DeletedItems  int         `json:"deleted_items"`
	UpsertedMeals int         `json:"upserted_meals"`
	UpsertedItems int         `json:"upserted_items"`
	Failures      []MealError `json:"failures,omitempty"`
}

// SyncService reconciles a client's complete in-memory meal list against the
// persisted, user-scoped store. The client list is the source of truth; the
// store is brought to match it exactly at two levels (meals, then items)
// without touching any other user's data.
type SyncService struct {
	db    *gorm.DB
	rdb   *redis.Client
	cache *TotalsCache
	locks sync.Map // user id -> *sync.Mutex
}

func NewSyncService(db *gorm.DB, rdb *redis.Client, cache *TotalsCache) *SyncService {
	return &SyncService{db: db, rdb: rdb, cache: cache}
}

// mealPlan is the committed I/O plan for one incoming meal.
type mealPlan struct {
	meal        models.Meal
	deleteItems []uuid.UUID
	items       []models.MealItem
}

// syncPlan is the full diff, computed before any write so partial failures
// are attributable to a specific step.
type syncPlan struct {
	deleteMeals []uuid.UUID
	meals       []mealPlan
}

// SyncMeals runs one full reconciliation for the user. Runs for the same user
// are serialized: a per-user mutex in process and, when Redis is configured,
// a cross-instance lease. A held lease surfaces as ErrSyncBusy so the client
// retries on its next save cycle instead of racing an in-flight run.
func (s *SyncService) SyncMeals(ctx context.Context, userID uuid.UUID, incoming []types.SyncMeal, opts SyncOptions) (*Report, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	release, err := s.acquireLease(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := s.buildPlan(ctx, userID, incoming)
	if err != nil {
		return nil, fmt.Errorf("plan sync for user %s: %w", userID, err)
	}

	report, err := s.executePlan(ctx, userID, plan, opts)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	return report, nil
}

// buildPlan reads the persisted state and computes the complete two-level
// diff. No writes happen here.
func (s *SyncService) buildPlan(ctx context.Context, userID uuid.UUID, incoming []types.SyncMeal) (*syncPlan, error) {
	var persistedIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("user_id = ?", userID).
		Pluck("id", &persistedIDs).Error
	if err != nil {
		return nil, err
	}

	incomingIDs := make(map[uuid.UUID]bool, len(incoming))
	for _, m := range incoming {
		incomingIDs[m.ID] = true
	}

	plan := &syncPlan{}
	for _, id := range persistedIDs {
		if !incomingIDs[id] {
			plan.deleteMeals = append(plan.deleteMeals, id)
		}
	}

	for _, m := range incoming {
		items := m.NormalizedItems()

		// Joined on the owning meal so a foreign meal id in the payload can
		// never pull another user's item ids into the plan.
		var persistedItemIDs []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.MealItem{}).
			Joins("JOIN meals ON meals.id = meal_items.meal_id").
			Where("meal_items.meal_id = ? AND meals.user_id = ?", m.ID, userID).
			Pluck("meal_items.id", &persistedItemIDs).Error
		if err != nil {
			return nil, err
		}

		incomingItemIDs := make(map[uuid.UUID]bool, len(items))
		upserts := make([]models.MealItem, 0, len(items))
		for _, it := range items {
			itemID := it.ID
			if itemID == uuid.Nil {
				itemID = uuid.New()
			}
			incomingItemIDs[itemID] = true
			upserts = append(upserts, models.MealItem{
				ID:     itemID,
				MealID: m.ID,
				FoodID: it.FoodID,
				Grams:  it.Grams,
			})
		}

		mp := mealPlan{
			meal: models.Meal{
				ID:     m.ID,
				UserID: userID,
				Name:   m.Name,
				Eaten:  clampEaten(m.Eaten),
			},
			items: upserts,
		}
		for _, id := range persistedItemIDs {
			if !incomingItemIDs[id] {
				mp.deleteItems = append(mp.deleteItems, id)
			}
		}
		plan.meals = append(plan.meals, mp)
	}

	return plan, nil
}

// executePlan applies the diff: stale meals first (cascading their items),
// then each incoming meal independently. Per-meal failures are collected in
// the report unless StopOnError is set.
func (s *SyncService) executePlan(ctx context.Context, userID uuid.UUID, plan *syncPlan, opts SyncOptions) (*Report, error) {
	report := &Report{}
	var reportMu sync.Mutex

	fail := func(mealID uuid.UUID, err error) error {
		if opts.StopOnError {
			return fmt.Errorf("sync meal %s: %w", mealID, err)
		}
		reportMu.Lock()
		report.Failures = append(report.Failures, MealError{MealID: mealID, Reason: err.Error()})
		reportMu.Unlock()
		return nil
	}

	for _, mealID := range plan.deleteMeals {
		deletedItems, err := s.deleteMealCascade(ctx, userID, mealID)
		if err != nil {
			if err := fail(mealID, err); err != nil {
				return nil, err
			}
			continue
		}
		report.DeletedMeals++
		report.DeletedItems += deletedItems
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, mp := range plan.meals {
		mp := mp
		g.Go(func() error {
			deletedItems, upsertedItems, err := s.applyMeal(gctx, userID, mp)
			if err != nil {
				return fail(mp.meal.ID, err)
			}
			reportMu.Lock()
			report.UpsertedMeals++
			report.UpsertedItems += upsertedItems
			report.DeletedItems += deletedItems
			reportMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// applyMeal upserts one meal record, deletes its stale items, and upserts the
// incoming ones. All operations for a single meal run sequentially inside one
// transaction.
func (s *SyncService) applyMeal(ctx context.Context, userID uuid.UUID, mp mealPlan) (deleted, upserted int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A meal id that already exists must belong to this user. Without
		// this check an upsert could mutate another user's row.
		var existing models.Meal
		lookupErr := tx.Select("user_id").Where("id = ?", mp.meal.ID).First(&existing).Error
		switch {
		case lookupErr == nil:
			if existing.UserID != userID {
				return ErrNotFound
			}
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			// Client-generated id never persisted; plain insert below.
		default:
			return lookupErr
		}

		// Insert-or-replace keyed by meal id.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "eaten", "updated_at"}),
		}).Create(&mp.meal).Error; err != nil {
			return err
		}

		if len(mp.deleteItems) > 0 {
			res := tx.Where("meal_id = ? AND id IN ?", mp.meal.ID, mp.deleteItems).
				Delete(&models.MealItem{})
			if res.Error != nil {
				return res.Error
			}
			deleted = int(res.RowsAffected)
		}

		// Same rule as the meal guard above, one level down: an incoming item
		// id that is already persisted under another user's meal must fail
		// the whole meal instead of being overwritten in place.
		if len(mp.items) > 0 {
			itemIDs := make([]uuid.UUID, 0, len(mp.items))
			for _, it := range mp.items {
				itemIDs = append(itemIDs, it.ID)
			}
			var foreign int64
			err := tx.Model(&models.MealItem{}).
				Joins("JOIN meals ON meals.id = meal_items.meal_id").
				Where("meal_items.id IN ? AND meals.user_id <> ?", itemIDs, userID).
				Count(&foreign).Error
			if err != nil {
				return err
			}
			if foreign > 0 {
				return ErrNotFound
			}
		}

		for i := range mp.items {
			// meal_id is part of the update set so a same-user item reused
			// under a different meal moves instead of leaving a stale copy.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"meal_id", "food_id", "grams", "updated_at"}),
			}).Create(&mp.items[i]).Error; err != nil {
				return err
			}
			upserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return deleted, upserted, nil
}

// deleteMealCascade removes one stale meal and all of its items, checking the
// ownership filter on the meal row. No orphan items may remain.
func (s *SyncService) deleteMealCascade(ctx context.Context, userID, mealID uuid.UUID) (int, error) {
	var deletedItems int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{})
		if res.Error != nil {
			return res.Error
		}
		deletedItems = int(res.RowsAffected)
		return tx.Where("id = ? AND user_id = ?", mealID, userID).
			Delete(&models.Meal{}).Error
	})
	if err != nil {
		return 0, err
	}
	return deletedItems, nil
}

func (s *SyncService) userLock(userID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// acquireLease takes the cross-instance sync lease for the user when Redis is
// configured. Without Redis the in-process mutex is the only serialization.
func (s *SyncService) acquireLease(ctx context.Context, userID uuid.UUID) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}
	key := "synclock:" + userID.String()
	ok, err := s.rdb.SetNX(ctx, key, "1", syncLeaseTTL).Result()
	if err != nil {
		// Redis being down must not block syncing; the per-user mutex still
		// serializes within this instance.
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSyncBusy
	}
	return func() {
		s.rdb.Del(context.WithoutCancel(ctx), key)
	}, nil
}

func clampEaten(eaten int) int {
	if eaten < 0 {
		return 0
	}
	return eaten
}
