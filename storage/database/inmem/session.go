package inmemdb

import (
	"context"

	"github.com/trezcool/mahudhurio/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) GetActiveSession(_ context.Context) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.db.active == nil {
		return session.Session{}, session.ErrNotFound
	}
	return *repo.db.active, nil
}

func (repo *sessionRepository) ReplaceActiveSession(_ context.Context, sess session.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.active = &sess
	repo.db.history = append(repo.db.history, sess)
	return nil
}

func (repo *sessionRepository) DeleteActiveSession(_ context.Context) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.active = nil
	return nil
}

func (repo *sessionRepository) QuerySessions(_ context.Context, filter session.QueryFilter) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sessions := make([]session.Session, 0, len(repo.db.history))
	for i := len(repo.db.history) - 1; i >= 0; i-- {
		sess := repo.db.history[i]
		if filter.ClassID != "" && sess.ClassID != filter.ClassID {
			continue
		}
		if !filter.CreatedFrom.IsZero() && sess.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && sess.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
