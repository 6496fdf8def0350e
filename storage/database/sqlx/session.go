package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

type sessionRow struct {
	session.Session
	ClosedAt null.Time `db:"closed_at"`
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) GetActiveSession(ctx context.Context) (session.Session, error) {
	var rows []sessionRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT token, class_id, subject, room, created_at, closed_at
		FROM sessions WHERE closed_at IS NULL LIMIT 2`)
	switch {
	case err != nil:
		return session.Session{}, errors.Wrap(err, "getting active session")
	case len(rows) == 0:
		return session.Session{}, session.ErrNotFound
	case len(rows) > 1:
		return session.Session{}, core.NewShutdownError("integrity issue: more than one active session")
	}
	rows[0].CreatedAt = rows[0].CreatedAt.UTC()
	return rows[0].Session, nil
}

// ReplaceActiveSession closes the current active session, if any, and inserts sess as the new one.
func (repo *sessionRepository) ReplaceActiveSession(ctx context.Context, sess session.Session) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = closeActive(ctx, tx, sess.CreatedAt); err != nil {
		return err
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sessions (token, class_id, subject, room, created_at)
		VALUES (:token, :class_id, :subject, :room, :created_at)`, sess)
	if err != nil {
		return errors.Wrap(err, "inserting session")
	}
	return errors.Wrap(tx.Commit(), "committing session")
}

func (repo *sessionRepository) DeleteActiveSession(ctx context.Context) error {
	return closeActive(ctx, repo.db, time.Now().UTC())
}

func closeActive(ctx context.Context, db sqlx.ExecerContext, at time.Time) error {
	_, err := db.ExecContext(ctx, `UPDATE sessions SET closed_at = $1 WHERE closed_at IS NULL`, null.TimeFrom(at))
	return errors.Wrap(err, "closing active session")
}

func (repo *sessionRepository) QuerySessions(ctx context.Context, filter session.QueryFilter) ([]session.Session, error) {
	var (
		conds []string
		args  []interface{}
	)
	where := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.ClassID != "" {
		where("class_id = $%d", filter.ClassID)
	}
	if !filter.CreatedFrom.IsZero() {
		where("created_at >= $%d", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		where("created_at <= $%d", filter.CreatedTo)
	}

	q := "SELECT token, class_id, subject, room, created_at, closed_at FROM sessions"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	var rows []sessionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		row.CreatedAt = row.CreatedAt.UTC()
		sessions = append(sessions, row.Session)
	}
	return sessions, nil
}
