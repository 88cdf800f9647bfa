// Package sqlite implements the event store driver on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	// Pure-Go sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/meetsense/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	organizer TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	attendees TEXT NOT NULL DEFAULT '',
	start_ts INTEGER NOT NULL,
	end_ts INTEGER NOT NULL,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	created_ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_event_start_ts ON event (start_ts);
`

// DB is the sqlite-backed store driver.
type DB struct {
	db *sql.DB
}

// NewDB opens the database at dsn and ensures the schema exists.
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to apply schema")
	}
	return &DB{db: db}, nil
}

func (d *DB) CreateEvent(ctx context.Context, create *store.Event) (*store.Event, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO event (uid, organizer, summary, description, location, attendees, start_ts, end_ts, timezone, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		create.UID, create.Organizer, create.Summary, create.Description, create.Location,
		strings.Join(create.Attendees, ","), create.StartTs, create.EndTs, create.Timezone, create.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert event")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read insert id")
	}
	create.ID = id
	return create, nil
}

func (d *DB) ListEvents(ctx context.Context, find *store.FindEvent) ([]*store.Event, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find != nil {
		if find.EndTs != nil {
			where, args = append(where, "start_ts < ?"), append(args, *find.EndTs)
		}
		if find.StartTs != nil {
			where, args = append(where, "end_ts > ?"), append(args, *find.StartTs)
		}
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, organizer, summary, description, location, attendees, start_ts, end_ts, timezone, created_ts
		FROM event
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY start_ts ASC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var list []*store.Event
	for rows.Next() {
		var event store.Event
		var attendees string
		if err := rows.Scan(
			&event.ID, &event.UID, &event.Organizer, &event.Summary, &event.Description,
			&event.Location, &attendees, &event.StartTs, &event.EndTs, &event.Timezone, &event.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan event row")
		}
		if attendees != "" {
			event.Attendees = strings.Split(attendees, ",")
		}
		list = append(list, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate event rows")
	}
	return list, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
