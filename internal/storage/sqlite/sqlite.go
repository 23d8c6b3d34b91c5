// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers; sessions are small.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBill persists the live bill of a session.
func (s *SQLiteStore) SaveBill(ctx context.Context, sessionID string, bill *models.Bill) error {
	return s.put(ctx, sessionID, storage.SlotBill, bill)
}

// LoadBill retrieves the live bill of a session.
func (s *SQLiteStore) LoadBill(ctx context.Context, sessionID string) (*models.Bill, error) {
	return s.get(ctx, sessionID, storage.SlotBill)
}

// SaveSnapshot persists the undo snapshot of a session.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, sessionID string, bill *models.Bill) error {
	return s.put(ctx, sessionID, storage.SlotSnapshot, bill)
}

// LoadSnapshot retrieves the undo snapshot of a session.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, sessionID string) (*models.Bill, error) {
	return s.get(ctx, sessionID, storage.SlotSnapshot)
}

// ClearSnapshot deletes the undo snapshot of a session.
func (s *SQLiteStore) ClearSnapshot(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM session_state WHERE session_id = ? AND slot = ?",
		sessionID, string(storage.SlotSnapshot),
	)
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// PurgeBefore deletes every value not written since cutoff and returns the
// number of rows removed.
func (s *SQLiteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM session_state WHERE updated_at < ?",
		cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) put(ctx context.Context, sessionID string, slot storage.Slot, bill *models.Bill) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_state (session_id, slot, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (session_id, slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		sessionID, string(slot), string(payload), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, sessionID string, slot storage.Slot) (*models.Bill, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM session_state WHERE session_id = ? AND slot = ?",
		sessionID, string(slot),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s for session %s: %w", slot, sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", slot, err)
	}

	bill := &models.Bill{}
	if err := json.Unmarshal([]byte(payload), bill); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", slot, err)
	}
	return bill, nil
}
