package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/session"
)

type Repository interface {
	// CreateRecord returns ErrDuplicate if a record exists for (ParticipantID, SessionToken).
	CreateRecord(ctx context.Context, rec Record) (Record, error)
	// GetRecord returns ErrNotFound when nothing was recorded for the pair.
	GetRecord(ctx context.Context, participantID, token string) (Record, error)
	QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
	CountRecords(ctx context.Context, token string) (int, error)
}

// SessionValidator is the part of the session registry a Recorder consults.
type SessionValidator interface {
	Validate(ctx context.Context, token string, now time.Time, maxAge time.Duration) (session.ValidationResult, error)
}

var newRecordID = func() string { return uuid.New().String() } // mockable

// Recorder decides on attendance claims and owns the attendance records.
type Recorder struct {
	repo   Repository
	maxAge time.Duration
	locks  *keyedMutex
}

func NewRecorder(repo Repository, maxAge time.Duration) *Recorder {
	return &Recorder{
		repo:   repo,
		maxAge: maxAge,
		locks:  newKeyedMutex(),
	}
}

func (r *Recorder) MaxAge() time.Duration { return r.maxAge }

// RecordAttendance decides on one claim. Checks run in this order and the first failing one wins:
// token shape, session validity (missing/mismatched, then expired), duplicate claim.
func (r *Recorder) RecordAttendance(
	ctx context.Context,
	registry SessionValidator,
	participantID, claimedToken string,
	now time.Time,
) Outcome {
	participantID = strings.TrimSpace(participantID)
	claimedToken = strings.TrimSpace(claimedToken)
	if participantID == "" || !session.IsWellFormed(claimedToken) {
		return Outcome{Status: RejectedMalformed}
	}

	res, err := registry.Validate(ctx, claimedToken, now, r.maxAge)
	if err != nil {
		return unavailable(errors.Wrap(err, "validating session"))
	}
	switch res.Status {
	case session.StatusNoActiveSession, session.StatusTokenMismatch:
		return Outcome{Status: RejectedNoSession}
	case session.StatusExpired:
		return Outcome{Status: RejectedExpired, Session: res.Session}
	}

	unlock := r.locks.Lock(claimedToken)
	defer unlock()

	if _, err = r.repo.GetRecord(ctx, participantID, claimedToken); err == nil {
		return Outcome{Status: RejectedDuplicate}
	} else if errors.Cause(err) != ErrNotFound {
		return unavailable(errors.Wrap(err, "getting record"))
	}

	rec, err := r.repo.CreateRecord(ctx, Record{
		ID:            newRecordID(),
		ParticipantID: participantID,
		SessionToken:  claimedToken,
		RecordedAt:    now.UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrDuplicate {
			return Outcome{Status: RejectedDuplicate}
		}
		return unavailable(errors.Wrap(err, "creating record"))
	}
	return Outcome{Status: Accepted, Record: rec, Session: res.Session}
}

func (r *Recorder) Records(ctx context.Context, filter QueryFilter) ([]Record, error) {
	records, err := r.repo.QueryRecords(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	return records, nil
}

// Count is the number of accepted claims for a session token.
func (r *Recorder) Count(ctx context.Context, token string) (int, error) {
	n, err := r.repo.CountRecords(ctx, token)
	if err != nil {
		return 0, errors.Wrap(err, "counting records")
	}
	return n, nil
}

func unavailable(err error) Outcome {
	return Outcome{Status: RejectedUnavailable, Err: err}
}
