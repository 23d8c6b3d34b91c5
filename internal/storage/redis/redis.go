// Package redis provides a Redis-backed implementation of the storage.Store interface.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/elka/internal/models"
	"github.com/mmynk/elka/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps each session value as a JSON string under
// "<prefix>:<session>:<slot>" with a sliding TTL.
type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// New wraps an existing client. A non-positive ttl stores values without expiry.
func New(client *goredis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "elka"
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Dial parses a redis:// URL, connects and pings the server.
func Dial(ctx context.Context, url string, ttl time.Duration) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, "", ttl), nil
}

func (s *Store) SaveBill(ctx context.Context, sessionID string, bill *models.Bill) error {
	return s.setJSON(ctx, s.key(sessionID, storage.SlotBill), bill)
}

func (s *Store) LoadBill(ctx context.Context, sessionID string) (*models.Bill, error) {
	return s.getJSON(ctx, s.key(sessionID, storage.SlotBill))
}

func (s *Store) SaveSnapshot(ctx context.Context, sessionID string, bill *models.Bill) error {
	return s.setJSON(ctx, s.key(sessionID, storage.SlotSnapshot), bill)
}

func (s *Store) LoadSnapshot(ctx context.Context, sessionID string) (*models.Bill, error) {
	return s.getJSON(ctx, s.key(sessionID, storage.SlotSnapshot))
}

func (s *Store) ClearSnapshot(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID, storage.SlotSnapshot)).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(sessionID string, slot storage.Slot) string {
	return s.prefix + ":" + sessionID + ":" + string(slot)
}

func (s *Store) setJSON(ctx context.Context, key string, bill *models.Bill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *Store) getJSON(ctx context.Context, key string) (*models.Bill, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		return nil, err
	}
	bill := &models.Bill{}
	if err := json.Unmarshal(data, bill); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return bill, nil
}
