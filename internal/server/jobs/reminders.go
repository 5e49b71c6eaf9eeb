// Package jobs holds the periodic background work run under the server's
// supervisor tree.
package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/thejerf/suture/v4"
)

// OverdueReminder sends reminder notifications for overdue loans.
type OverdueReminder interface {
	SendOverdueReminders(ctx context.Context) (int, error)
}

// TokenPurger drops expired refresh tokens.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// Reminders is a suture service that runs the overdue sweep and the refresh
// token cleanup once per interval. The first run happens one interval after
// start so that restarts do not resend reminders.
type Reminders struct {
	reminder OverdueReminder
	tokens   TokenPurger
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger
}

func NewReminders(r OverdueReminder, t TokenPurger, interval time.Duration, log logging.Logger) *Reminders {
	return &Reminders{
		reminder: r,
		tokens:   t,
		interval: interval,
		timeout:  5 * time.Minute,
		log:      log.With("service", "reminders"),
	}
}

// Serve implements suture.Service. A non-positive interval disables the job
// and tells the supervisor not to restart it.
func (s *Reminders) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.log.Info(ctx, "overdue reminders disabled")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info(ctx, "overdue reminders scheduled", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. Failures are logged; the next tick tries
// again.
func (s *Reminders) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.reminder.SendOverdueReminders(ctx)
	if err != nil {
		s.log.Warn(ctx, "overdue sweep failed", "error", err)
	} else {
		s.log.Info(ctx, "overdue sweep complete", "reminders", n, "duration", time.Since(start).String())
	}

	if s.tokens == nil {
		return
	}
	purged, err := s.tokens.PurgeExpiredTokens(ctx)
	if err != nil {
		s.log.Warn(ctx, "refresh token cleanup failed", "error", err)
		return
	}
	if purged > 0 {
		s.log.Debug(ctx, "expired refresh tokens removed", "count", purged)
	}
}

func (s *Reminders) String() string { return "overdue-reminders" }
