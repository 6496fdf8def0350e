package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/tests"
)

type closerFunc func(ctx context.Context) (session.Session, bool, error)

func (f closerFunc) CloseExpired(ctx context.Context) (session.Session, bool, error) { return f(ctx) }

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every now and then", closerFunc(nil), testutil.NewNopLogger())
	assert.Error(t, err)
}

func TestScheduler_CloseExpiredSessions(t *testing.T) {
	calls := 0
	sched, err := New("@every 1h", closerFunc(func(context.Context) (session.Session, bool, error) {
		calls++
		if calls == 2 {
			return session.Session{}, false, errors.New("db down")
		}
		return session.Session{Token: "CS001-1"}, true, nil
	}), testutil.NewNopLogger())
	require.NoError(t, err)

	sched.CloseExpiredSessions()
	sched.CloseExpiredSessions() // errors are logged, not fatal
	assert.Equal(t, 2, calls)
}

func TestScheduler_Run(t *testing.T) {
	ran := make(chan struct{}, 1)
	sched, err := New("@every 1s", closerFunc(func(context.Context) (session.Session, bool, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return session.Session{}, false, nil
	}), testutil.NewNopLogger())
	require.NoError(t, err)

	sched.Start()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sched.Stop(ctx))
}
