// Package observability wires prometheus collectors for the dashboard.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles the collectors the dashboard exports on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	Events           *prometheus.CounterVec
	PlayCount        prometheus.Gauge
	VoiceConnections prometheus.Gauge
	PrepareSteps     *prometheus.CounterVec
}

// New builds a self-contained registry. Using a private registry keeps
// test processes from tripping over duplicate registration.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagehand_events_total",
				Help: "Events received on the log endpoint, by type",
			},
			[]string{"type"},
		),
		PlayCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stagehand_play_count",
			Help: "Total tracks played as last reported by the bot",
		}),
		VoiceConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stagehand_voice_connections",
			Help: "Active voice connections as last reported by the bot",
		}),
		PrepareSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagehand_prepare_steps_total",
				Help: "Preparation step outcomes, by step and result",
			},
			[]string{"step", "result"},
		),
	}

	m.Registry.MustRegister(
		m.Events,
		m.PlayCount,
		m.VoiceConnections,
		m.PrepareSteps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
