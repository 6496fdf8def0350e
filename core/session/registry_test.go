package session_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

const maxAge = 30 * time.Minute

func newRegistry(t *testing.T) (*session.Registry, *testutil.Clock) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	clock := testutil.NewClock(testutil.T0)
	return session.NewRegistry(inmemdb.NewSessionRepository(db), "", session.WithClock(clock.Now)), clock
}

func TestRegistry_OpenSession(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	sess, err := reg.OpenSession(ctx, session.NewSession{Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)
	assert.Equal(t, "CLASS", sess.ClassID)
	assert.Equal(t, "CLASS-1709542800000", sess.Token)
	assert.True(t, sess.CreatedAt.Equal(testutil.T0))

	active, ok, err := reg.ActiveSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sess, active)

	_, err = reg.OpenSession(ctx, session.NewSession{ClassID: "CS 101", Subject: "x", Room: "y"})
	assert.Error(t, err)
}

func TestRegistry_OpenSessionSupersedes(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	first, err := reg.OpenSession(ctx, session.NewSession{ClassID: "CS001", Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)
	second, err := reg.OpenSession(ctx, session.NewSession{ClassID: "CS001", Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)

	// same clock reading, distinct tokens
	assert.NotEqual(t, first.Token, second.Token)
	assert.True(t, strings.HasPrefix(second.Token, "CS001-"))
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	res, err := reg.Validate(ctx, first.Token, testutil.T0, maxAge)
	require.NoError(t, err)
	assert.Equal(t, session.StatusTokenMismatch, res.Status)

	res, err = reg.Validate(ctx, second.Token, testutil.T0, maxAge)
	require.NoError(t, err)
	assert.Equal(t, session.StatusValid, res.Status)

	history, err := reg.History(ctx, session.QueryFilter{ClassID: "CS001"})
	require.NoError(t, err)
	if assert.Len(t, history, 2) {
		assert.Equal(t, second.Token, history[0].Token)
		assert.Equal(t, first.Token, history[1].Token)
	}
}

func TestRegistry_OpenSessionMicrosecondPrecision(t *testing.T) {
	ctx := context.Background()
	reg, clock := newRegistry(t)
	clock.Set(testutil.T0.Add(1500 * time.Nanosecond))

	sess, err := reg.OpenSession(ctx, session.NewSession{Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)
	assert.Equal(t, testutil.T0.Add(time.Microsecond), sess.CreatedAt)
	assert.Zero(t, sess.CreatedAt.Nanosecond()%int(time.Microsecond))

	// a claim at exactly created_at+maxAge, as read back from a microsecond store
	res, err := reg.Validate(ctx, sess.Token, sess.CreatedAt.Add(maxAge), maxAge)
	require.NoError(t, err)
	assert.Equal(t, session.StatusValid, res.Status)
}

func TestRegistry_Validate(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	res, err := reg.Validate(ctx, "CLASS-1709542800000", testutil.T0, maxAge)
	require.NoError(t, err)
	assert.Equal(t, session.StatusNoActiveSession, res.Status)

	sess, err := reg.OpenSession(ctx, session.NewSession{Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		after      time.Duration
		wantStatus session.ValidationStatus
	}{
		{name: "fresh", token: sess.Token, after: 0, wantStatus: session.StatusValid},
		{name: "before max age", token: sess.Token, after: 29 * time.Minute, wantStatus: session.StatusValid},
		{name: "exactly max age", token: sess.Token, after: maxAge, wantStatus: session.StatusValid},
		{name: "just past max age", token: sess.Token, after: maxAge + time.Millisecond, wantStatus: session.StatusExpired},
		{name: "long expired", token: sess.Token, after: 2 * time.Hour, wantStatus: session.StatusExpired},
		{name: "other token", token: "CLASS-1", after: 0, wantStatus: session.StatusTokenMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := reg.Validate(ctx, tt.token, testutil.T0.Add(tt.after), maxAge)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantStatus == session.StatusValid, res.Valid())
			if tt.wantStatus == session.StatusValid || tt.wantStatus == session.StatusExpired {
				assert.Equal(t, sess.Token, res.Session.Token)
			}
		})
	}
}

func TestRegistry_CloseSession(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	// nothing to close
	require.NoError(t, reg.CloseSession(ctx))

	sess, err := reg.OpenSession(ctx, session.NewSession{Subject: "Data Structures", Room: "CS-101"})
	require.NoError(t, err)
	require.NoError(t, reg.CloseSession(ctx))

	_, ok, err := reg.ActiveSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := reg.Validate(ctx, sess.Token, testutil.T0, maxAge)
	require.NoError(t, err)
	assert.Equal(t, session.StatusNoActiveSession, res.Status)
}
