package attendance

import (
	"errors"
	"time"

	"github.com/trezcool/mahudhurio/core/session"
)

var (
	// errors
	ErrNotFound  = errors.New("attendance record not found")
	ErrDuplicate = errors.New("attendance already recorded for this session")
)

// Record is the evidence that a participant's claim was accepted.
// There is at most one Record per (ParticipantID, SessionToken).
type Record struct {
	ID            string    `json:"id" db:"id"`
	ParticipantID string    `json:"participant_id" db:"participant_id"`
	SessionToken  string    `json:"session_token" db:"session_token"`
	RecordedAt    time.Time `json:"recorded_at" db:"recorded_at"` // UTC
}

type QueryFilter struct {
	ParticipantID string
	SessionToken  string
	RecordedFrom  time.Time
	RecordedTo    time.Time
}

func (qf QueryFilter) Match(rec Record) bool {
	if qf.ParticipantID != "" && rec.ParticipantID != qf.ParticipantID {
		return false
	}
	if qf.SessionToken != "" && rec.SessionToken != qf.SessionToken {
		return false
	}
	if !qf.RecordedFrom.IsZero() && rec.RecordedAt.Before(qf.RecordedFrom) {
		return false
	}
	if !qf.RecordedTo.IsZero() && rec.RecordedAt.After(qf.RecordedTo) {
		return false
	}
	return true
}

type OutcomeStatus int

const (
	Accepted OutcomeStatus = iota
	RejectedNoSession
	RejectedExpired
	RejectedDuplicate
	RejectedMalformed
	// RejectedUnavailable is reported when a store failed; the claim may be retried.
	RejectedUnavailable
)

func (s OutcomeStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case RejectedNoSession:
		return "rejected_no_session"
	case RejectedExpired:
		return "rejected_expired"
	case RejectedDuplicate:
		return "rejected_duplicate"
	case RejectedMalformed:
		return "rejected_malformed"
	case RejectedUnavailable:
		return "rejected_unavailable"
	default:
		return "unknown"
	}
}

// Outcome is the decision on a single claim.
type Outcome struct {
	Status  OutcomeStatus
	Record  Record          // Accepted only
	Session session.Session // Accepted and RejectedExpired
	Err     error           // RejectedUnavailable only
}

func (o Outcome) Accepted() bool { return o.Status == Accepted }

// Message is the text shown to the participant.
func (o Outcome) Message() string {
	switch o.Status {
	case Accepted:
		return "Attendance marked successfully!"
	case RejectedNoSession:
		return "No active class session found. Please ask your teacher to generate a QR code."
	case RejectedExpired:
		return "QR code has expired. Please ask your teacher for a new one."
	case RejectedDuplicate:
		return "You have already marked attendance for this session."
	case RejectedMalformed:
		return "Invalid QR code. Please scan the code displayed by your teacher."
	default:
		return "Attendance is unavailable right now. Please try again."
	}
}
