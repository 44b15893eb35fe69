package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSchedule runs the expiry sweep every five minutes. Expiry is
// enforced at validation time regardless; the sweep only reclaims rows.
const DefaultSweepSchedule = "*/5 * * * *"

// Sweeper periodically deletes expired sessions on a cron schedule.
// Multiple sweepers (e.g. across server instances) may run concurrently;
// the sweep is idempotent.
type Sweeper struct {
	service *Service
	cron    *cron.Cron
	log     *logrus.Logger
	timeout time.Duration
}

// NewSweeper creates a Sweeper invoking service.SweepExpired on the given
// cron schedule (DefaultSweepSchedule when empty).
func NewSweeper(service *Service, schedule string, log *logrus.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if log == nil {
		log = logrus.New()
	}

	s := &Sweeper{
		service: service,
		cron:    cron.New(),
		log:     log,
		timeout: 30 * time.Second,
	}

	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.service.SweepExpired(ctx); err != nil {
		s.log.WithError(err).Error("session sweep failed")
	}
}

// Start begins scheduled sweeping in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
