// Package http exposes the deployment dashboard: the keep-alive surface
// the hosting platform polls, plus the endpoints the bot reports into.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/radiofm/stagehand/internal/observability"
	"github.com/radiofm/stagehand/internal/status"
)

// Server serves the dashboard for one deployment.
type Server struct {
	store   status.Store
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the server.
type Option func(*Server)

// WithClock overrides the time source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the dashboard router.
func NewHandler(store status.Store, metrics *observability.Metrics, opts ...Option) http.Handler {
	s := &Server{
		store:   store,
		metrics: metrics,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/bot-status", s.handleBotStatus)
	r.Post("/log", s.handleLog)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

// handleHealth is the liveness endpoint the platform pinger hits.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context())
	if err != nil {
		httpError(w, "status store unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.logger, map[string]any{
		"status":     "healthy",
		"bot_status": snap.State,
		"timestamp":  s.now().Format(time.RFC3339),
	})
}

// botStatusResponse is the wire shape of GET /bot-status.
type botStatusResponse struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	UptimeSeconds    int    `json:"uptime_seconds"`
	Connection       string `json:"discord_connection"`
	VoiceConnections int    `json:"voice_connections"`
	LastError        string `json:"last_error,omitempty"`
	PlayCount        int64  `json:"play_count"`
	FFmpeg           string `json:"ffmpeg_status"`
	Timestamp        string `json:"timestamp"`
}

func (s *Server) handleBotStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context())
	if err != nil {
		httpError(w, "status store unavailable", http.StatusServiceUnavailable)
		return
	}

	now := s.now()
	uptime := snap.Uptime(now)
	writeJSON(w, s.logger, botStatusResponse{
		Status:           snap.State,
		Uptime:           status.FormatUptimeClock(uptime),
		UptimeSeconds:    int(uptime.Seconds()),
		Connection:       snap.Connection,
		VoiceConnections: snap.VoiceConnections,
		LastError:        snap.LastError,
		PlayCount:        snap.PlayCount,
		FFmpeg:           snap.FFmpeg,
		Timestamp:        now.Format("2006-01-02 15:04:05"),
	})
}

// handleLog ingests events posted by the bot process.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ev, err := status.DecodeEvent(raw)
	if err != nil {
		httpError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.metrics.Events.WithLabelValues(ev.Type).Inc()

	switch ev.Type {
	case status.EventError:
		s.logger.Error("bot error", "message", ev.Message)
		if err := s.store.RecordError(r.Context(), s.now(), ev.Message); err != nil {
			httpError(w, "failed to record error", http.StatusInternalServerError)
			return
		}
	case status.EventStatus:
		err := s.store.Update(r.Context(), func(snap *status.Snapshot) {
			ev.Apply(snap)
			s.metrics.PlayCount.Set(float64(snap.PlayCount))
			s.metrics.VoiceConnections.Set(float64(snap.VoiceConnections))
		})
		if err != nil {
			httpError(w, "failed to update status", http.StatusInternalServerError)
			return
		}
		s.logger.Info("status update", "status", raw["status"])
	default:
		s.logger.Info("bot log", "message", ev.Message)
	}

	writeJSON(w, s.logger, map[string]any{"success": true})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("response encode failed", "error", err)
	}
}

func httpError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

const dashboardHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Radio FM - Deployment Dashboard</title>
    <style>
        body { font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; margin: 2rem; }
        .card { background: #1e293b; border-radius: 8px; padding: 1.5rem; max-width: 32rem; }
        dt { color: #94a3b8; font-size: 0.85rem; text-transform: uppercase; margin-top: 0.75rem; }
        dd { margin: 0.1rem 0 0; font-size: 1.1rem; }
        .online { color: #4ade80; }
        .error { color: #f87171; }
    </style>
</head>
<body>
<h1>Radio FM</h1>
<div class="card">
    <dl id="stats"><dt>Status</dt><dd>loading...</dd></dl>
</div>
<script>
    async function refresh() {
        const res = await fetch('/bot-status');
        const s = await res.json();
        document.getElementById('stats').innerHTML =
            '<dt>Status</dt><dd class="' + (s.status === 'online' ? 'online' : 'error') + '">' + s.status + '</dd>' +
            '<dt>Uptime</dt><dd>' + s.uptime + '</dd>' +
            '<dt>Discord</dt><dd>' + s.discord_connection + '</dd>' +
            '<dt>Voice connections</dt><dd>' + s.voice_connections + '</dd>' +
            '<dt>Tracks played</dt><dd>' + s.play_count + '</dd>' +
            '<dt>FFmpeg</dt><dd>' + s.ffmpeg_status + '</dd>' +
            (s.last_error ? '<dt>Last error</dt><dd class="error">' + s.last_error + '</dd>' : '');
    }
    refresh();
    setInterval(refresh, 5000);
</script>
</body>
</html>
`
