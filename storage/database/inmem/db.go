package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/session"
)

type (
	// DB is a process-local store. Each Open returns an independent instance.
	DB struct {
		session *sessionTable
		record  *recordTable
	}

	sessionTable struct {
		mutex   sync.RWMutex
		active  *session.Session
		history []session.Session // oldest first
	}

	recordKey struct {
		participantID string
		token         string
	}

	recordTable struct {
		mutex sync.RWMutex
		table map[recordKey]*attendance.Record
		order []recordKey
	}
)

func Open() (*DB, error) {
	db := &DB{
		session: &sessionTable{},
		record:  &recordTable{table: make(map[recordKey]*attendance.Record)},
	}
	return db, nil
}
