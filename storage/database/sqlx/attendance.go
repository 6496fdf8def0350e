package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

const uniqueViolation = pq.ErrorCode("23505")

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) attendance.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO attendance_records (id, participant_id, session_token, recorded_at)
		VALUES (:id, :participant_id, :session_token, :recorded_at)`, rec)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return attendance.Record{}, attendance.ErrDuplicate
		}
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo *recordRepository) GetRecord(ctx context.Context, participantID, token string) (attendance.Record, error) {
	var rec attendance.Record
	err := repo.db.GetContext(ctx, &rec, `
		SELECT id, participant_id, session_token, recorded_at
		FROM attendance_records WHERE participant_id = $1 AND session_token = $2`, participantID, token)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return attendance.Record{}, attendance.ErrNotFound
	case err != nil:
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	rec.RecordedAt = rec.RecordedAt.UTC()
	return rec, nil
}

func (repo *recordRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	var (
		conds []string
		args  []interface{}
	)
	where := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.ParticipantID != "" {
		where("participant_id = $%d", filter.ParticipantID)
	}
	if filter.SessionToken != "" {
		where("session_token = $%d", filter.SessionToken)
	}
	if !filter.RecordedFrom.IsZero() {
		where("recorded_at >= $%d", filter.RecordedFrom)
	}
	if !filter.RecordedTo.IsZero() {
		where("recorded_at <= $%d", filter.RecordedTo)
	}

	q := "SELECT id, participant_id, session_token, recorded_at FROM attendance_records"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY recorded_at, id"

	recs := make([]attendance.Record, 0)
	if err := repo.db.SelectContext(ctx, &recs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	for i := range recs {
		recs[i].RecordedAt = recs[i].RecordedAt.UTC()
	}
	return recs, nil
}

func (repo *recordRepository) CountRecords(ctx context.Context, token string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM attendance_records WHERE session_token = $1`, token)
	return count, errors.Wrap(err, "counting attendance records")
}
