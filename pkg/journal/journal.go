package journal

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	_ "modernc.org/sqlite"
)

// Event is one diagnostic entry: a connection change, a session
// transition or a failed acquisition tick.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    session_id TEXT,
    kind TEXT NOT NULL,
    detail TEXT
);`

// Journal persists events to a SQLite file. Writes go through a
// buffered queue handled by a single goroutine so recording never
// blocks the acquisition loop; when the queue is full the event is
// dropped rather than stalling a tick.
type Journal struct {
	mux    sync.RWMutex
	closed bool

	db     *sql.DB
	events chan Event
	done   chan struct{}
}

func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create journal directory %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create events table")
	}

	j := &Journal{
		db:     db,
		events: make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
	go j.writeLoop()
	return j, nil
}

// Record queues one event. Non-blocking; safe to call after Close.
func (j *Journal) Record(kind, sessionID, detail string) {
	j.mux.RLock()
	defer j.mux.RUnlock()
	if j.closed {
		return
	}
	select {
	case j.events <- Event{Timestamp: time.Now(), SessionID: sessionID, Kind: kind, Detail: detail}:
	default:
		klog.V(3).InfoS("Dropped journal event", "kind", kind)
	}
}

// Recent returns up to limit events, newest first. A non-positive
// limit selects a default page size.
func (j *Journal) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := j.db.Query(
		"SELECT timestamp, IFNULL(session_id, ''), kind, IFNULL(detail, '') FROM events ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(&ts, &e.SessionID, &e.Kind, &e.Detail); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		if t, err := time.ParseInLocation(eventTimeForm, ts, time.Local); err == nil {
			e.Timestamp = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close drains queued events and closes the database. Idempotent.
func (j *Journal) Close() error {
	j.mux.Lock()
	if j.closed {
		j.mux.Unlock()
		return nil
	}
	j.closed = true
	close(j.events)
	j.mux.Unlock()

	<-j.done
	return errors.Wrap(j.db.Close(), "close journal")
}

func (j *Journal) writeLoop() {
	defer close(j.done)
	for e := range j.events {
		_, err := j.db.Exec(
			"INSERT INTO events(timestamp, session_id, kind, detail) VALUES(?, ?, ?, ?)",
			e.Timestamp.Format(eventTimeForm), e.SessionID, e.Kind, e.Detail)
		if err != nil {
			klog.V(2).InfoS("Failed to write event", "kind", e.Kind, "err", err)
		}
	}
}
