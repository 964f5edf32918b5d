// Package scheduler provides the periodic trigger that invokes the
// ingestion pipeline. Scheduling policy lives outside the core: this
// trigger only calls the job, it knows nothing about what the job does.
package scheduler

import (
	"context"
	"time"

	"AgendaScanner/internal/ports"
)

// IntervalTrigger fires the job immediately and then on a fixed
// interval.
type IntervalTrigger struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Trigger = (*IntervalTrigger)(nil)

// NewIntervalTrigger builds a trigger with the given period.
func NewIntervalTrigger(interval time.Duration) *IntervalTrigger {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &IntervalTrigger{interval: interval}
}

// Start begins ticking. Calling Start on a running trigger is a no-op.
func (t *IntervalTrigger) Start(ctx context.Context, job func()) error {
	if job == nil {
		return nil
	}
	if t.stop != nil {
		return nil
	}

	t.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job()
		for {
			select {
			case <-ticker.C:
				job()
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
