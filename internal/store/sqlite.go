// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Storing each room as a JSON document with a version column that
//     CompareAndSwap conditions its UPDATE on.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/assets"
	"github.com/robalobadob/rummy-rooms/internal/game"
)

// SQLiteStore keeps rooms in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if missing) the database at dsn and
// applies migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// openDB opens a SQLite database file.
//
//   - Ensures the parent directory exists for relative DSNs (e.g. ./data/rummy.db).
//   - Configures busy timeout and WAL journaling so concurrent writers wait
//     instead of failing with SQLITE_BUSY.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded SQL migrations in lexical order, skipping
// any already recorded in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	ms, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	for _, m := range ms {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, code string) (*game.Room, Version, error) {
	var (
		data    string
		version int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, version FROM rooms WHERE code=?`, code).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: get room %s: %w", code, err)
	}
	room, err := decodeRoom([]byte(data))
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: room %s: %w", code, err)
	}
	return room, Version(version), nil
}

func (s *SQLiteStore) Create(ctx context.Context, room *game.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO rooms (code, data, version, created_at, updated_at)
        VALUES (?, ?, 1, ?, ?)`,
		room.Code, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create room %s: %w", room.Code, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, room *game.Room) (Version, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var version int64
	err = s.db.QueryRowContext(ctx, `
        INSERT INTO rooms (code, data, version, created_at, updated_at)
        VALUES (?, ?, 1, ?, ?)
        ON CONFLICT(code) DO UPDATE SET
            data = excluded.data,
            version = rooms.version + 1,
            updated_at = excluded.updated_at
        RETURNING version`,
		room.Code, string(data), now, now,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("sqlite: put room %s: %w", room.Code, err)
	}
	return Version(version), nil
}

func (s *SQLiteStore) CompareAndSwap(ctx context.Context, expected Version, room *game.Room) (bool, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE rooms SET data=?, version=version+1, updated_at=?
        WHERE code=? AND version=?`,
		string(data), time.Now().UTC().Format(time.RFC3339), room.Code, int64(expected),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: cas room %s: %w", room.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	// Nothing matched: either someone else bumped the version or the row is gone.
	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE code=?`, room.Code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: cas room %s: %w", room.Code, err)
	}
	return false, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// decodeRoom parses a stored room document and normalizes nil slices so
// an empty room always reads back as players=[] and rounds=[].
func decodeRoom(data []byte) (*game.Room, error) {
	var r game.Room
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode room: %w", err)
	}
	if r.Players == nil {
		r.Players = []string{}
	}
	if r.Rounds == nil {
		r.Rounds = []game.Round{}
	}
	return &r, nil
}
