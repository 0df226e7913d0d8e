// Package warm schedules periodic refreshes of the reference-data cache.
package warm

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// jobTimeout bounds a single warm run.
const jobTimeout = 2 * time.Minute

// Warmer runs a refresh job on a cron schedule.
type Warmer struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New builds a Warmer that runs refresh on the given cron schedule
// (standard 5-field spec).
func New(schedule string, refresh func(ctx context.Context) error, log zerolog.Logger) (*Warmer, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("reference cache warm failed")
			return
		}
		log.Info().Msg("reference cache warmed")
	})
	if err != nil {
		return nil, fmt.Errorf("warm: invalid schedule %q: %w", schedule, err)
	}
	return &Warmer{cron: c, log: log}, nil
}

// Start begins running the schedule in its own goroutine.
func (w *Warmer) Start() {
	w.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}
