package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/session"
)

var t0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewSessionRepository(db)

	_, err := repo.GetActiveSession(ctx)
	assert.Equal(t, session.ErrNotFound, err)

	s1 := session.Session{Token: "CS001-1", ClassID: "CS001", CreatedAt: t0}
	s2 := session.Session{Token: "CS002-2", ClassID: "CS002", CreatedAt: t0.Add(time.Hour)}
	require.NoError(t, repo.ReplaceActiveSession(ctx, s1))
	require.NoError(t, repo.ReplaceActiveSession(ctx, s2))

	active, err := repo.GetActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, s2, active)

	require.NoError(t, repo.DeleteActiveSession(ctx))
	_, err = repo.GetActiveSession(ctx)
	assert.Equal(t, session.ErrNotFound, err)

	tests := []struct {
		name   string
		filter session.QueryFilter
		want   []string
	}{
		{name: "all, newest first", want: []string{"CS002-2", "CS001-1"}},
		{name: "by class", filter: session.QueryFilter{ClassID: "CS001"}, want: []string{"CS001-1"}},
		{name: "created from", filter: session.QueryFilter{CreatedFrom: t0.Add(time.Minute)}, want: []string{"CS002-2"}},
		{name: "created to", filter: session.QueryFilter{CreatedTo: t0}, want: []string{"CS001-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, err := repo.QuerySessions(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, 0, len(sessions))
			for _, s := range sessions {
				got = append(got, s.Token)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	repo := NewRecordRepository(db)

	r1 := attendance.Record{ID: "1", ParticipantID: "S001", SessionToken: "CS001-1", RecordedAt: t0}
	r2 := attendance.Record{ID: "2", ParticipantID: "S002", SessionToken: "CS001-1", RecordedAt: t0.Add(time.Minute)}
	r3 := attendance.Record{ID: "3", ParticipantID: "S001", SessionToken: "CS002-2", RecordedAt: t0.Add(time.Hour)}
	for _, rec := range []attendance.Record{r1, r2, r3} {
		_, err := repo.CreateRecord(ctx, rec)
		require.NoError(t, err)
	}

	_, err := repo.CreateRecord(ctx, attendance.Record{ID: "4", ParticipantID: "S001", SessionToken: "CS001-1"})
	assert.Equal(t, attendance.ErrDuplicate, err)

	got, err := repo.GetRecord(ctx, "S002", "CS001-1")
	require.NoError(t, err)
	assert.Equal(t, r2, got)

	_, err = repo.GetRecord(ctx, "S002", "CS002-2")
	assert.Equal(t, attendance.ErrNotFound, err)

	n, err := repo.CountRecords(ctx, "CS001-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := repo.QueryRecords(ctx, attendance.QueryFilter{ParticipantID: "S001"})
	require.NoError(t, err)
	assert.Equal(t, []attendance.Record{r1, r3}, recs)

	recs, err = repo.QueryRecords(ctx, attendance.QueryFilter{RecordedFrom: t0.Add(time.Second), RecordedTo: t0.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, []attendance.Record{r2}, recs)
}
