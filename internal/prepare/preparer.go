// Package prepare implements the environment preparation sequence that
// runs before control is handed to the deployed application: dependency
// install with a single fixed fallback, credential staging, and the
// managed-deployment marker. Every step is best-effort; only the final
// launch can fail the process.
package prepare

import (
	"context"
	"log/slog"
	"os"

	"github.com/radiofm/stagehand/internal/config"
	"github.com/radiofm/stagehand/internal/observability"
)

func realGetenv(key string) string { return os.Getenv(key) }

// Report summarizes a preparation run. Warnings carry the messages of
// every swallowed failure so callers can surface them without the run
// having aborted.
type Report struct {
	Dependency     DepOutcome
	FFmpegPath     string
	Credentials    CredOutcome
	CredentialPath string
	Warnings       []string
}

// Preparer runs the sequence. Construct with New; the zero value is not
// usable.
type Preparer struct {
	cfg      config.Config
	dir      string
	runner   Runner
	lookPath LookPathFunc
	setenv   func(key, value string) error
	getenv   func(string) string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithRunner injects the command runner used for package installation.
func WithRunner(r Runner) Option {
	return func(p *Preparer) {
		p.runner = r
	}
}

// WithLookPath injects the executable prober.
func WithLookPath(fn LookPathFunc) Option {
	return func(p *Preparer) {
		p.lookPath = fn
	}
}

// WithEnv injects the environment accessors. Tests use this to keep the
// real process environment untouched.
func WithEnv(setenv func(key, value string) error, getenv func(string) string) Option {
	return func(p *Preparer) {
		p.setenv = setenv
		p.getenv = getenv
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// WithMetrics records step outcomes on the given collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Preparer) {
		p.metrics = m
	}
}

// New creates a Preparer for the project at dir.
func New(cfg config.Config, dir string, opts ...Option) *Preparer {
	p := &Preparer{
		cfg:    cfg,
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = NewExecRunner(p.logger)
	}
	if p.setenv == nil {
		p.setenv = os.Setenv
	}
	return p
}

// Run executes the sequence: managed flag, dependency install with
// fallback, credential staging. It never returns an error; failures of
// optional steps become warnings in the report. Launching is the
// caller's job.
func (p *Preparer) Run(ctx context.Context) Report {
	var report Report

	// Step 1: mark the managed deployment. Children inherit it.
	if err := p.setenv(config.EnvManaged, "1"); err != nil {
		p.logger.Warn("failed to set managed flag", "error", err)
		report.Warnings = append(report.Warnings, err.Error())
	}

	// Step 2: dependency install, fixed two-attempt policy.
	in := newInstaller(p.cfg.Dependencies, p.runner, p.lookPath, p.logger)
	dep, warnings := in.ensure(ctx)
	report.Dependency = dep
	report.Warnings = append(report.Warnings, warnings...)
	p.countStep("dependency", string(dep))

	if dep != DepMissing {
		report.FFmpegPath = LocateFFmpeg()
	}

	// Step 3: credential staging.
	getenv := p.getenv
	if getenv == nil {
		getenv = realGetenv
	}
	cred, path, err := stageCredentials(p.dir, p.cfg.Credentials, getenv)
	report.Credentials = cred
	report.CredentialPath = path
	if err != nil {
		p.logger.Warn("credential staging degraded", "error", err)
		report.Warnings = append(report.Warnings, err.Error())
	} else {
		p.logger.Info("credential staging finished", "outcome", string(cred), "path", path)
	}
	p.countStep("credentials", string(cred))

	return report
}

func (p *Preparer) countStep(step, result string) {
	if p.metrics != nil {
		p.metrics.PrepareSteps.WithLabelValues(step, result).Inc()
	}
}
