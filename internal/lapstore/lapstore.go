// Package lapstore caches ingested lap telemetry in a local sqlite
// database so repeated comparisons of the same session do not re-read the
// source exports.
package lapstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/openlaps/lapdelta/internal/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrNotFound is returned when no cached stream exists for a session and
// driver pair.
var ErrNotFound = errors.New("no cached stream for session/driver")

// Store is a sqlite-backed telemetry cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the cache database at path and brings
// the schema up to the latest migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStream caches a stream, replacing any previous entry for the same
// (session, driver) pair. Returns the stream's assigned ID.
func (s *Store) SaveStream(stream *telemetry.Stream) (string, error) {
	if stream.Session == "" || stream.Driver == "" {
		return "", fmt.Errorf("stream must carry session and driver labels")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`DELETE FROM samples WHERE stream_id IN
			(SELECT id FROM streams WHERE session = ? AND driver = ?)`,
		stream.Session, stream.Driver,
	)
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(`DELETE FROM streams WHERE session = ? AND driver = ?`,
		stream.Session, stream.Driver); err != nil {
		return "", err
	}

	id := uuid.New().String()
	if _, err := tx.Exec(`INSERT INTO streams (id, session, driver) VALUES (?, ?, ?)`,
		id, stream.Session, stream.Driver); err != nil {
		return "", err
	}

	insert, err := tx.Prepare(`INSERT INTO samples (stream_id, idx, distance, time_ns, speed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer insert.Close()

	for i, sample := range stream.Samples {
		if _, err := insert.Exec(id, i, sample.Distance, sample.Timestamp.Nanoseconds(), sample.Speed); err != nil {
			return "", fmt.Errorf("sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LoadStream returns the cached stream for a session and driver, or
// ErrNotFound.
func (s *Store) LoadStream(session, driver string) (*telemetry.Stream, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM streams WHERE session = ? AND driver = ?`,
		session, driver).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", session, driver, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT distance, time_ns, speed FROM samples WHERE stream_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stream := &telemetry.Stream{Session: session, Driver: driver}
	for rows.Next() {
		var distance, speed float64
		var ns int64
		if err := rows.Scan(&distance, &ns, &speed); err != nil {
			return nil, err
		}
		stream.Samples = append(stream.Samples, telemetry.Sample{
			Distance:  distance,
			Timestamp: time.Duration(ns),
			Speed:     speed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stream, nil
}

// Sessions lists the distinct session keys present in the cache.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session FROM streams ORDER BY session`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// AttachAdminRoutes mounts debug handlers for the cache on mux, including a
// tailSQL instance for live SQL inspection.
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+s.path, s.db, &tailsql.DBOptions{
		Label: "Telemetry cache",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
}
