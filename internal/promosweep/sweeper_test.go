package promosweep

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Promotion{}))
	return db
}

func newTestSweeper(t *testing.T, now time.Time) (*Sweeper, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return &Sweeper{DB: db, Now: func() time.Time { return now }}, db
}

func seedPromotion(t *testing.T, db *gorm.DB, active bool, startsAt time.Time, endsAt *time.Time) models.Promotion {
	t.Helper()
	promo := models.Promotion{
		VendorID:             1,
		Name:                 "test",
		Kind:                 models.DiscountPercentage,
		Value:                10,
		ApplicableCategories: []models.Category{"Cerveza"},
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		Active:               active,
	}
	require.NoError(t, db.Create(&promo).Error)
	return promo
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Promotion {
	t.Helper()
	var promo models.Promotion
	require.NoError(t, db.First(&promo, id).Error)
	return promo
}

func TestSweep_ActivatesDuePromotions(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	promo := seedPromotion(t, db, false, now.Add(-1*time.Hour), nil)

	activated, deactivated := s.Sweep(context.Background())
	assert.Equal(t, int64(1), activated)
	assert.Equal(t, int64(0), deactivated)
	assert.True(t, reload(t, db, promo.ID).Active)
}

func TestSweep_ActivatesAtExactStartInstant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	s, db := newTestSweeper(t, now)

	promo := seedPromotion(t, db, false, now, nil)

	activated, _ := s.Sweep(context.Background())
	assert.Equal(t, int64(1), activated)
	assert.True(t, reload(t, db, promo.ID).Active)
}

func TestSweep_DoesNotActivateFutureStart(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	promo := seedPromotion(t, db, false, now.Add(1*time.Hour), nil)

	activated, deactivated := s.Sweep(context.Background())
	assert.Zero(t, activated)
	assert.Zero(t, deactivated)
	assert.False(t, reload(t, db, promo.ID).Active)
}

func TestSweep_DeactivatesExpiredPromotions(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	end := now.Add(-1 * time.Hour)
	promo := seedPromotion(t, db, true, now.Add(-2*time.Hour), &end)

	activated, deactivated := s.Sweep(context.Background())
	assert.Equal(t, int64(0), activated)
	assert.Equal(t, int64(1), deactivated)
	assert.False(t, reload(t, db, promo.ID).Active)
}

func TestSweep_LeavesOpenWindowActive(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	end := now.Add(1 * time.Hour)
	promo := seedPromotion(t, db, true, now.Add(-2*time.Hour), &end)

	activated, deactivated := s.Sweep(context.Background())
	assert.Zero(t, activated)
	assert.Zero(t, deactivated)
	assert.True(t, reload(t, db, promo.ID).Active)
}

func TestSweep_NoEndInstantNeverDeactivates(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	promo := seedPromotion(t, db, true, now.Add(-24*time.Hour), nil)

	for i := 0; i < 3; i++ {
		s.Sweep(context.Background())
	}
	assert.True(t, reload(t, db, promo.ID).Active)
}

func TestSweep_IdempotentWithoutClockAdvance(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	seedPromotion(t, db, false, now.Add(-1*time.Hour), nil)
	end := now.Add(-30 * time.Minute)
	seedPromotion(t, db, true, now.Add(-2*time.Hour), &end)

	activated, deactivated := s.Sweep(context.Background())
	assert.Equal(t, int64(1), activated)
	assert.Equal(t, int64(1), deactivated)

	activated, deactivated = s.Sweep(context.Background())
	assert.Zero(t, activated)
	assert.Zero(t, deactivated)
}

func TestSweep_ActiveWithFutureStartIsLeftAlone(t *testing.T) {
	// The activation rule only matches activo=false rows, so a promotion
	// stored active ahead of its window is never touched.
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	promo := seedPromotion(t, db, true, now.Add(1*time.Hour), nil)

	activated, deactivated := s.Sweep(context.Background())
	assert.Zero(t, activated)
	assert.Zero(t, deactivated)
	assert.True(t, reload(t, db, promo.ID).Active)
}

func TestSweep_FullLifecycleAcrossClockAdvances(t *testing.T) {
	base := time.Now().UTC()
	clock := base
	db := newTestDB(t)
	s := &Sweeper{DB: db, Now: func() time.Time { return clock }}

	end := base.Add(2 * time.Hour)
	promo := seedPromotion(t, db, false, base.Add(1*time.Hour), &end)

	s.Sweep(context.Background())
	assert.False(t, reload(t, db, promo.ID).Active)

	clock = base.Add(90 * time.Minute)
	activated, _ := s.Sweep(context.Background())
	assert.Equal(t, int64(1), activated)
	assert.True(t, reload(t, db, promo.ID).Active)

	clock = base.Add(3 * time.Hour)
	_, deactivated := s.Sweep(context.Background())
	assert.Equal(t, int64(1), deactivated)
	assert.False(t, reload(t, db, promo.ID).Active)
}

func TestSweep_StoreFailureIsSwallowed(t *testing.T) {
	now := time.Now().UTC()
	s, db := newTestSweeper(t, now)

	require.NoError(t, db.Migrator().DropTable(&models.Promotion{}))

	assert.NotPanics(t, func() {
		activated, deactivated := s.Sweep(context.Background())
		assert.Zero(t, activated)
		assert.Zero(t, deactivated)
	})
}
