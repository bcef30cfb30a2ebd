package promosweep

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultInterval = time.Minute
	DefaultTimezone = "America/Caracas"
)

// Runner attaches a Sweeper to a real interval timer. Its lifetime is tied
// to the host process; there is no state to persist across restarts because
// every sweep recomputes from the stored instants.
type Runner struct {
	Sweeper  *Sweeper
	Interval time.Duration
	Log      *slog.Logger

	loc  *time.Location
	stop chan struct{}
	done chan struct{}
}

func (r *Runner) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Start launches the cadence in its own goroutine. The timezone only shapes
// the timestamps the runner logs; window comparisons inside Sweep are
// absolute.
func (r *Runner) Start(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return err
	}
	r.loc = loc
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	r.log().Info("promotion sweep cadence started", "interval", interval.String(), "timezone", DefaultTimezone)

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.log().Debug("running promotion sweep", "local_time", time.Now().In(r.loc))
				r.Sweeper.Sweep(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop halts the cadence and waits for an in-flight sweep to finish.
func (r *Runner) Stop() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	<-r.done
}
