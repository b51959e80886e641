// Package rehearsal records how long each slide stays on screen during a
// rehearsal and summarises the timings per slide.
package rehearsal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/presentation"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNoSession is returned when ending a session that was never started.
var ErrNoSession = errors.New("rehearsal session not found")

// Dwell is one continuous stretch of a slide being active.
type Dwell struct {
	SessionID int64
	Slide     string
	EnteredAt time.Time
	Duration  time.Duration
}

// Store persists rehearsal sessions in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating rehearsal directory: %w", err)
	}
	if err := migrateUp(path); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatRehearsal, "Failed to ping database", err, "path", path)
		return nil, err
	}

	log.Info(log.CatRehearsal, "Opened rehearsal store", "path", path)
	return &Store{db: db}, nil
}

func migrateUp(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartSession opens a rehearsal session for deckPath and returns its id.
func (s *Store) StartSession(ctx context.Context, deckPath string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (deck_path, started_at) VALUES (?, ?)`,
		deckPath, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("starting session: %w", err)
	}
	return res.LastInsertId()
}

// EndSession stamps the end time of session id.
func (s *Store) EndSession(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ending session %d: %w", id, ErrNoSession)
	}
	return nil
}

// RecordDwell stores one dwell.
func (s *Store) RecordDwell(ctx context.Context, d Dwell) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dwells (session_id, slide, entered_at, duration_ms) VALUES (?, ?, ?, ?)`,
		d.SessionID, d.Slide, d.EnteredAt.UTC(), d.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("recording dwell on %s: %w", d.Slide, err)
	}
	return nil
}

// Stats sums the dwells recorded for deckPath per slide, in the order the
// slides were first visited.
func (s *Store) Stats(ctx context.Context, deckPath string) ([]presentation.SlideStatDTO, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.slide, COUNT(*), SUM(d.duration_ms)
		FROM dwells d
		JOIN sessions s ON s.id = d.session_id
		WHERE s.deck_path = ?
		GROUP BY d.slide
		ORDER BY MIN(d.id)`, deckPath)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []presentation.SlideStatDTO
	for rows.Next() {
		var (
			slide   string
			views   int
			totalMs int64
		)
		if err := rows.Scan(&slide, &views, &totalMs); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		total := float64(totalMs) / 1000
		stats = append(stats, presentation.SlideStatDTO{
			Slide:          slide,
			Views:          views,
			TotalSeconds:   total,
			AverageSeconds: total / float64(views),
		})
	}
	return stats, rows.Err()
}
