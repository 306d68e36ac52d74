// Package redis provides a status store shared between replicas.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/radiofm/stagehand/internal/status"
)

// Store implements status.Store on Redis. Several serving replicas can
// point their dashboards at the same deployment state.
type Store struct {
	client    *backend.Client
	prefix    string
	ttl       time.Duration
	maxErrors int64
}

// Option configures the store.
type Option func(*Store)

// WithPrefix sets the key prefix for all stored values.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiration on the snapshot key. Zero means keep
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithErrorHistory bounds the retained error list.
func WithErrorHistory(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxErrors = n
		}
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client:    client,
		prefix:    "stagehand:status",
		maxErrors: 50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed writes the initial snapshot only if none exists yet, so a
// restarting replica does not clobber live state.
func (s *Store) Seed(ctx context.Context, snap status.Snapshot) error {
	data, err := json.Marshal(wireSnapshot(snap))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.SetNX(ctx, s.snapshotKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to seed snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshotKey() string {
	return s.prefix
}

func (s *Store) errorsKey() string {
	return s.prefix + ":errors"
}

// Get loads the snapshot plus the recorded error history.
func (s *Store) Get(ctx context.Context) (status.Snapshot, error) {
	data, err := s.client.Get(ctx, s.snapshotKey()).Bytes()
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var wire snapshotDTO
	if err := json.Unmarshal(data, &wire); err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	snap := wire.domain()

	raw, err := s.client.LRange(ctx, s.errorsKey(), 0, s.maxErrors-1).Result()
	if err != nil {
		return status.Snapshot{}, fmt.Errorf("failed to load error history: %w", err)
	}
	// LPush stores newest first; present oldest first like the memory store.
	for i := len(raw) - 1; i >= 0; i-- {
		var e status.Error
		if json.Unmarshal([]byte(raw[i]), &e) == nil {
			snap.Errors = append(snap.Errors, e)
		}
	}

	return snap, nil
}

// Update performs a read-modify-write of the snapshot. The dashboard
// has a single writer per field in practice, so no optimistic locking.
func (s *Store) Update(ctx context.Context, fn func(*status.Snapshot)) error {
	snap, err := s.Get(ctx)
	if err != nil {
		return err
	}

	fn(&snap)

	data, err := json.Marshal(wireSnapshot(snap))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.snapshotKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// RecordError pushes onto the error list, trims it, and updates the
// last-error field.
func (s *Store) RecordError(ctx context.Context, at time.Time, msg string) error {
	entry, err := json.Marshal(status.Error{Time: at, Message: msg})
	if err != nil {
		return fmt.Errorf("failed to marshal error entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.errorsKey(), entry)
	pipe.LTrim(ctx, s.errorsKey(), 0, s.maxErrors-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record error: %w", err)
	}

	return s.Update(ctx, func(snap *status.Snapshot) {
		snap.LastError = msg
	})
}

// snapshotDTO is the Redis wire form. Errors live in their own list key.
type snapshotDTO struct {
	State            string    `json:"status"`
	StartedAt        time.Time `json:"started_at"`
	Connection       string    `json:"discord_connection"`
	VoiceConnections int       `json:"voice_connections"`
	LastError        string    `json:"last_error"`
	PlayCount        int64     `json:"play_count"`
	FFmpeg           string    `json:"ffmpeg_status"`
}

func wireSnapshot(s status.Snapshot) snapshotDTO {
	return snapshotDTO{
		State:            s.State,
		StartedAt:        s.StartedAt,
		Connection:       s.Connection,
		VoiceConnections: s.VoiceConnections,
		LastError:        s.LastError,
		PlayCount:        s.PlayCount,
		FFmpeg:           s.FFmpeg,
	}
}

func (d snapshotDTO) domain() status.Snapshot {
	return status.Snapshot{
		State:            d.State,
		StartedAt:        d.StartedAt,
		Connection:       d.Connection,
		VoiceConnections: d.VoiceConnections,
		LastError:        d.LastError,
		PlayCount:        d.PlayCount,
		FFmpeg:           d.FFmpeg,
	}
}
