package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
)

// T0 is the instant test sessions are opened at.
var T0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

// Clock is a settable clock for registries under test.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// At moves the clock to T0 + d.
func (c *Clock) At(d time.Duration) time.Time {
	c.Set(T0.Add(d))
	return T0.Add(d)
}

type nopLogger struct{}

func NewNopLogger() core.Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type Env struct {
	DB       *inmemdb.DB
	Clock    *Clock
	Registry *session.Registry
	Recorder *attendance.Recorder
	Service  *attendance.Service
}

// NewEnv wires an in-memory attendance service whose clock starts at T0.
// mailSvc may be nil.
func NewEnv(t *testing.T, maxAge time.Duration, mailSvc core.EmailService) *Env {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	clock := NewClock(T0)
	registry := session.NewRegistry(inmemdb.NewSessionRepository(db), "", session.WithClock(clock.Now))
	recorder := attendance.NewRecorder(inmemdb.NewRecordRepository(db), maxAge)
	svc := attendance.NewService(registry, recorder, roster.Default(), mailSvc, NewNopLogger())
	return &Env{
		DB:       db,
		Clock:    clock,
		Registry: registry,
		Recorder: recorder,
		Service:  svc,
	}
}

// OpenSession opens a session at the current clock time and fails the test on error.
func (env *Env) OpenSession(t *testing.T, classID, subject, room string) session.Session {
	t.Helper()

	sess, err := env.Service.OpenSession(context.Background(), session.NewSession{ClassID: classID, Subject: subject, Room: room})
	if err != nil {
		t.Fatalf("OpenSession() failed: %v", err)
	}
	return sess
}
