package scheduler

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

// ExpiredSessionCloser is implemented by attendance.Service.
type ExpiredSessionCloser interface {
	CloseExpired(ctx context.Context) (session.Session, bool, error)
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	cron   *cron.Cron
	closer ExpiredSessionCloser
	logger core.Logger
}

// New registers the expired-session sweep to run on spec (e.g. "@every 1m").
func New(spec string, closer ExpiredSessionCloser, logger core.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		closer: closer,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(spec, s.CloseExpiredSessions); err != nil {
		return nil, errors.Wrapf(err, "scheduling expired sessions sweep %q", spec)
	}
	return s, nil
}

// CloseExpiredSessions closes the active session if it outlived its max age.
func (s *Scheduler) CloseExpiredSessions() {
	sess, closed, err := s.closer.CloseExpired(context.Background())
	if err != nil {
		s.logger.Error(fmt.Sprintf("closing expired session: %v", err), err)
		return
	}
	if closed {
		s.logger.Info(fmt.Sprintf("expired session closed: %s", sess.Token))
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
