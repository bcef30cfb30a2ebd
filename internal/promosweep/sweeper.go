package promosweep

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/models"
)

// Sweeper keeps each promotion's activo flag consistent with its window.
// It is the only writer of that flag outside direct vendor edits.
//
// Both transitions are conditional bulk updates, so running concurrent
// sweepers is safe: the predicate goes false after the first writer wins and
// the effect is at-most-once per row, even though the reported counts are
// per-instance.
type Sweeper struct {
	DB  *gorm.DB
	Now func() time.Time
	Log *slog.Logger
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Sweeper) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Sweep activates promotions whose start has passed and deactivates active
// ones whose end has passed, returning the number of rows transitioned in
// each direction. Store errors are logged and swallowed; a transient failure
// costs one cycle, never the host process. Calling Sweep again without the
// clock advancing transitions nothing.
//
// A promotion with no fecha_fin stays active until edited by hand. One
// created activo=true with a future start is left alone: the activation
// predicate only matches activo=false rows.
func (s *Sweeper) Sweep(ctx context.Context) (activated, deactivated int64) {
	now := s.now()

	res := s.DB.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("activo = ? AND fecha_inicio <= ?", false, now).
		Update("activo", true)
	if res.Error != nil {
		s.log().Error("promotion activation sweep failed", "error", res.Error)
	} else {
		activated = res.RowsAffected
	}

	res = s.DB.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("activo = ? AND fecha_fin IS NOT NULL AND fecha_fin < ?", true, now).
		Update("activo", false)
	if res.Error != nil {
		s.log().Error("promotion deactivation sweep failed", "error", res.Error)
	} else {
		deactivated = res.RowsAffected
	}

	if activated > 0 || deactivated > 0 {
		s.log().Info("promotion sweep finished",
			"activated", activated,
			"deactivated", deactivated,
			"at", now,
		)
	}
	return activated, deactivated
}
