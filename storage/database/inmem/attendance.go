package inmemdb

import (
	"context"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type recordRepository struct {
	db *recordTable
}

func NewRecordRepository(db *DB) attendance.Repository {
	return &recordRepository{db: db.record}
}

func (repo *recordRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := recordKey{participantID: rec.ParticipantID, token: rec.SessionToken}
	if _, ok := repo.db.table[key]; ok {
		return attendance.Record{}, attendance.ErrDuplicate
	}
	repo.db.table[key] = &rec
	repo.db.order = append(repo.db.order, key)
	return rec, nil
}

func (repo *recordRepository) GetRecord(_ context.Context, participantID, token string) (attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.table[recordKey{participantID: participantID, token: token}]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

// QueryRecords returns matching records in the order they were recorded.
func (repo *recordRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0, len(repo.db.order))
	for _, key := range repo.db.order {
		if rec := repo.db.table[key]; filter.Match(*rec) {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (repo *recordRepository) CountRecords(_ context.Context, token string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var n int
	for key := range repo.db.table {
		if key.token == token {
			n++
		}
	}
	return n, nil
}
