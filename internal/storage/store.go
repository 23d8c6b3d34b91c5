// Package storage provides abstractions for persisting session state.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/elka/internal/models"
)

// ErrNotFound is returned when nothing is stored under the requested key.
var ErrNotFound = errors.New("not found")

// Slot names the independent values kept per session.
type Slot string

const (
	// SlotBill holds the live bill.
	SlotBill Slot = "bill"
	// SlotSnapshot holds the bill as it was before the last clear.
	SlotSnapshot Slot = "snapshot"
)

// Store defines the key-value operations the bill service needs.
// Each session owns one live bill and at most one undo snapshot.
// This abstraction allows swapping storage backends (SQLite, Redis)
// without changing the service layer.
type Store interface {
	// SaveBill replaces the live bill of the session.
	SaveBill(ctx context.Context, sessionID string, bill *models.Bill) error

	// LoadBill returns the live bill, or ErrNotFound.
	LoadBill(ctx context.Context, sessionID string) (*models.Bill, error)

	// SaveSnapshot stores the undo snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, sessionID string, bill *models.Bill) error

	// LoadSnapshot returns the undo snapshot, or ErrNotFound.
	LoadSnapshot(ctx context.Context, sessionID string) (*models.Bill, error)

	// ClearSnapshot removes the undo snapshot. Clearing a missing snapshot is not an error.
	ClearSnapshot(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}
