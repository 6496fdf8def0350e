package session

import (
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound       = errors.New("no active session")
	ErrMalformedToken = errors.New("malformed session token")
)

// Session is a single class-attendance window. It is never mutated once opened.
type Session struct {
	Token     string    `json:"token" db:"token"`
	ClassID   string    `json:"class_id" db:"class_id"`
	Subject   string    `json:"subject" db:"subject"`
	Room      string    `json:"room" db:"room"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Age returns how long the session has been open at `now`.
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// ShortToken is the tail of the token shown to the session owner.
func (s Session) ShortToken() string {
	if len(s.Token) <= 8 {
		return s.Token
	}
	return s.Token[len(s.Token)-8:]
}

// NewSession contains information needed to open a new Session.
type NewSession struct {
	ClassID string `json:"class_id" validate:"omitempty,classid"`
	Subject string `json:"subject" validate:"required,notblank"`
	Room    string `json:"room" validate:"required,notblank"`
}

type ValidationStatus int

const (
	StatusValid ValidationStatus = iota
	StatusNoActiveSession
	// StatusTokenMismatch is reported when a session is active but the token is not its token.
	StatusTokenMismatch
	StatusExpired
)

func (s ValidationStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusNoActiveSession:
		return "no_active_session"
	case StatusTokenMismatch:
		return "token_mismatch"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

type ValidationResult struct {
	Status  ValidationStatus
	Session Session // set for StatusValid and StatusExpired
}

func (r ValidationResult) Valid() bool { return r.Status == StatusValid }

type QueryFilter struct {
	ClassID     string
	CreatedFrom time.Time
	CreatedTo   time.Time
}
