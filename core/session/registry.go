package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

type Repository interface {
	// GetActiveSession returns ErrNotFound when no session is active.
	GetActiveSession(ctx context.Context) (Session, error)
	// ReplaceActiveSession makes sess the active session, superseding any previous one.
	ReplaceActiveSession(ctx context.Context, sess Session) error
	// DeleteActiveSession is a no-op when no session is active.
	DeleteActiveSession(ctx context.Context) error
	// QuerySessions returns every opened session, newest first.
	QuerySessions(ctx context.Context, filter QueryFilter) ([]Session, error)
}

// Registry holds at most one active Session.
type Registry struct {
	repo           Repository
	defaultClassID string
	nowFunc        func() time.Time

	mu         sync.Mutex
	lastMillis int64
}

type Option func(*Registry)

// WithClock replaces time.Now as the registry clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.nowFunc = now }
}

func NewRegistry(repo Repository, defaultClassID string, opts ...Option) *Registry {
	if defaultClassID == "" {
		defaultClassID = "CLASS"
	}
	r := &Registry{
		repo:           repo,
		defaultClassID: defaultClassID,
		nowFunc:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now reads the registry clock.
func (r *Registry) Now() time.Time {
	return r.nowFunc().UTC()
}

// nextMillis returns a token timestamp strictly greater than any previously issued one.
func (r *Registry) nextMillis(now time.Time) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	millis := now.UnixNano() / int64(time.Millisecond)
	if millis <= r.lastMillis {
		millis = r.lastMillis + 1
	}
	r.lastMillis = millis
	return millis
}

// OpenSession opens a fresh session and supersedes the active one, if any.
func (r *Registry) OpenSession(ctx context.Context, ns NewSession) (Session, error) {
	classID := ns.ClassID
	if classID == "" {
		classID = r.defaultClassID
	}
	if !core.ClassIDRegex.MatchString(classID) {
		return Session{}, errors.Errorf("invalid class id %q", classID)
	}

	// postgres keeps microseconds
	now := r.Now().Truncate(time.Microsecond)
	sess := Session{
		Token:     makeToken(classID, r.nextMillis(now)),
		ClassID:   classID,
		Subject:   ns.Subject,
		Room:      ns.Room,
		CreatedAt: now,
	}
	if err := r.repo.ReplaceActiveSession(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "replacing active session")
	}
	return sess, nil
}

// CloseSession removes the active session. Closing when none is active is fine.
func (r *Registry) CloseSession(ctx context.Context) error {
	if err := r.repo.DeleteActiveSession(ctx); err != nil {
		return errors.Wrap(err, "deleting active session")
	}
	return nil
}

// ActiveSession returns the active session; ok is false when there is none.
func (r *Registry) ActiveSession(ctx context.Context) (sess Session, ok bool, err error) {
	sess, err = r.repo.GetActiveSession(ctx)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Session{}, false, nil
		}
		return Session{}, false, errors.Wrap(err, "getting active session")
	}
	return sess, true, nil
}

// Validate checks token against the active session.
// A session whose age equals maxAge is still valid; only an older one is expired.
func (r *Registry) Validate(ctx context.Context, token string, now time.Time, maxAge time.Duration) (ValidationResult, error) {
	sess, ok, err := r.ActiveSession(ctx)
	if err != nil {
		return ValidationResult{}, err
	}
	if !ok {
		return ValidationResult{Status: StatusNoActiveSession}, nil
	}
	if sess.Token != token {
		return ValidationResult{Status: StatusTokenMismatch}, nil
	}
	if sess.Age(now) > maxAge {
		return ValidationResult{Status: StatusExpired, Session: sess}, nil
	}
	return ValidationResult{Status: StatusValid, Session: sess}, nil
}

// History lists opened sessions for the reporting surface.
func (r *Registry) History(ctx context.Context, filter QueryFilter) ([]Session, error) {
	sessions, err := r.repo.QuerySessions(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return sessions, nil
}
