package readings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// Repository archives peripheral readings in the local SQLite store.
//
// One row per published reading or applied LED command, with the topic
// it travelled on and the full JSON payload. The archive is the
// bridge's flight recorder; the broker's retained message only keeps
// the latest value.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a reading archive backed by an open database.
//
// Parameters:
//   - db: Open SQLite connection (schema managed by migrations)
//
// Returns:
//   - *Repository: Repository instance ready for use
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts one archive row for a reading.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - peripheral: Peripheral type the reading belongs to
//   - topic: Full MQTT topic the reading travelled on
//   - reading: The reading's field map (stored as JSON)
//
// Returns:
//   - error: nil on success, otherwise the marshalling or database error
func (r *Repository) Record(ctx context.Context, peripheral, topic string, reading map[string]any) error {
	if peripheral == "" {
		return fmt.Errorf("peripheral is required")
	}
	if reading == nil {
		reading = map[string]any{}
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshalling reading: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO readings (peripheral, topic, payload) VALUES (?, ?, ?)",
		peripheral,
		topic,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	return nil
}

// Entry is one archived reading, newest-first in Recent results.
type Entry struct {
	ID         int64
	Peripheral string
	Topic      string
	Reading    map[string]any
	CreatedAt  time.Time
}

// Recent returns the most recent archive entries for one peripheral,
// ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - peripheral: Peripheral type to filter on
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []Entry: Archive entries ordered by created_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *Repository) Recent(ctx context.Context, peripheral string, limit int) ([]Entry, error) {
	if peripheral == "" {
		return nil, fmt.Errorf("peripheral is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, peripheral, topic, payload, created_at
		 FROM readings
		 WHERE peripheral = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		peripheral,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			payload string
		)
		if err := rows.Scan(&entry.ID, &entry.Peripheral, &entry.Topic, &payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &entry.Reading); err != nil {
			return nil, fmt.Errorf("unmarshalling archived reading %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Count returns the number of archived entries for one peripheral.
func (r *Repository) Count(ctx context.Context, peripheral string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM readings WHERE peripheral = ?",
		peripheral,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return count, nil
}
