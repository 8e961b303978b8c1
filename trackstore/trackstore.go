// Package trackstore persists tracker output to SQLite so track histories
// can be queried after a session has finished
package trackstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/edgevision/go-bytetrack/tracker"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Observation is one recorded position of a track
type Observation struct {
	FrameID     int
	TrackID     int
	DetectionID int64
	Label       int
	Score       float32
	Rect        tracker.Rect
}

// Store records tracker results in a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies any pending
// migrations
func Open(path string) (*Store, error) {

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrateUp runs all pending embedded migrations
func migrateUp(db *sql.DB) error {

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// m is not closed as that would close db
	m.Log = &migrateLogger{}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}

// migrateLogger implements migrate.Logger
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[trackstore] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordFrame stores the results of one frame of a session in a single
// transaction.  Recording the same frame again replaces all of its rows.
func (s *Store) RecordFrame(ctx context.Context, sessionID uuid.UUID, frameID int,
	results []tracker.Result) error {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (session_id) VALUES (?)", sessionID.String())
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM track_observations WHERE session_id = ? AND frame_id = ?",
		sessionID.String(), frameID)
	if err != nil {
		return fmt.Errorf("failed to clear frame %d: %w", frameID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO track_observations
			(session_id, frame_id, track_id, detection_id, label, score, x, y, w, h)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx, sessionID.String(), frameID, r.TrackID,
			r.DetectionID, r.Label, r.Prob, r.Rect.X(), r.Rect.Y(), r.Rect.Width(),
			r.Rect.Height())

		if err != nil {
			return fmt.Errorf("failed to record track %d frame %d: %w", r.TrackID, frameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit frame %d: %w", frameID, err)
	}

	return nil
}

// TrackHistory returns the observations of a track ordered by frame
func (s *Store) TrackHistory(ctx context.Context, sessionID uuid.UUID,
	trackID int) ([]Observation, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT frame_id, track_id, detection_id, label, score, x, y, w, h
		FROM track_observations
		WHERE session_id = ? AND track_id = ?
		ORDER BY frame_id`, sessionID.String(), trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track history: %w", err)
	}
	defer rows.Close()

	var history []Observation

	for rows.Next() {
		var o Observation
		var x, y, w, h float32

		err := rows.Scan(&o.FrameID, &o.TrackID, &o.DetectionID, &o.Label, &o.Score,
			&x, &y, &w, &h)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		o.Rect = tracker.NewRect(x, y, w, h)
		history = append(history, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// Sessions returns the IDs of all recorded sessions in the order they were
// first recorded
func (s *Store) Sessions(ctx context.Context) ([]uuid.UUID, error) {

	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id FROM sessions ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var raw string

		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid session ID %q: %w", raw, err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
