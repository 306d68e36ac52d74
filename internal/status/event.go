package status

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Event kinds accepted on the log endpoint. Anything else is treated as
// a plain informational message.
const (
	EventError  = "error"
	EventStatus = "status"
	EventInfo   = "info"
)

// Event is a report posted by the bot process. The wire format is a
// loose JSON object; mapstructure bridges it into this struct so the
// handler never walks raw maps. Pointer fields distinguish "absent"
// from zero values on partial status updates.
type Event struct {
	Type             string  `mapstructure:"type"`
	Message          string  `mapstructure:"message"`
	Status           *string `mapstructure:"status"`
	Connection       *string `mapstructure:"discord_connection"`
	VoiceConnections *int    `mapstructure:"voice_connections"`
	PlayCount        *int64  `mapstructure:"play_count"`
	FFmpeg           *string `mapstructure:"ffmpeg_status"`
}

// DecodeEvent converts a decoded JSON body into an Event. Numeric
// fields arrive as float64 from encoding/json; WeaklyTypedInput covers
// the conversion.
func DecodeEvent(raw map[string]any) (Event, error) {
	var ev Event
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ev,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ev, fmt.Errorf("failed to build event decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return ev, fmt.Errorf("failed to decode event: %w", err)
	}
	if ev.Type == "" {
		ev.Type = EventInfo
	}
	return ev, nil
}

// Apply folds a status-type event into a snapshot. Only fields present
// in the event change.
func (ev Event) Apply(s *Snapshot) {
	if ev.Status != nil {
		s.State = *ev.Status
	}
	if ev.Connection != nil {
		s.Connection = *ev.Connection
	}
	if ev.VoiceConnections != nil {
		s.VoiceConnections = *ev.VoiceConnections
	}
	if ev.PlayCount != nil {
		s.PlayCount = *ev.PlayCount
	}
	if ev.FFmpeg != nil {
		s.FFmpeg = *ev.FFmpeg
	}
}
