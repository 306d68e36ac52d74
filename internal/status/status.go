// Package status models the runtime health of the launched bot as
// reported back to the dashboard.
package status

import (
	"context"
	"time"
)

// Well-known values for Snapshot.State.
const (
	StateStarting = "starting"
	StateOnline   = "online"
	StateError    = "error"
)

// Well-known values for Snapshot.FFmpeg.
const (
	FFmpegChecking  = "checking"
	FFmpegAvailable = "available"
	FFmpegNotFound  = "not_found"
)

// Snapshot is the dashboard's view of the bot at a point in time.
type Snapshot struct {
	State            string    `json:"status"`
	StartedAt        time.Time `json:"-"`
	Connection       string    `json:"discord_connection"`
	VoiceConnections int       `json:"voice_connections"`
	LastError        string    `json:"last_error,omitempty"`
	PlayCount        int64     `json:"play_count"`
	FFmpeg           string    `json:"ffmpeg_status"`
	Errors           []Error   `json:"-"`
}

// Error is one recorded bot error with its arrival time.
type Error struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// NewSnapshot returns the state a deployment starts in.
func NewSnapshot(now time.Time) Snapshot {
	return Snapshot{
		State:      StateStarting,
		StartedAt:  now,
		Connection: "disconnected",
		FFmpeg:     FFmpegChecking,
	}
}

// Uptime reports how long the snapshot's process has been alive.
func (s Snapshot) Uptime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}

// Store persists and mutates the deployment snapshot. Implementations
// must be safe for concurrent use; the dashboard reads while the bot
// posts updates.
type Store interface {
	// Get returns the current snapshot.
	Get(ctx context.Context) (Snapshot, error)
	// Update applies fn to the current snapshot and persists the result.
	Update(ctx context.Context, fn func(*Snapshot)) error
	// RecordError appends to the error history and sets LastError.
	RecordError(ctx context.Context, at time.Time, msg string) error
}
