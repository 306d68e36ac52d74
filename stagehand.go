package stagehand

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/radiofm/stagehand/internal/config"
	"github.com/radiofm/stagehand/internal/launch"
	"github.com/radiofm/stagehand/internal/observability"
	"github.com/radiofm/stagehand/internal/prepare"
)

// Version is the stagehand release version.
var Version = "0.3.0"

// Mode selects which downstream process a deployment runs. Exactly one
// of the two, fixed per deployment by the hosting configuration.
type Mode string

const (
	// ModeServer runs the network-serving process bound to $PORT.
	ModeServer Mode = "server"
	// ModeWorker runs the standalone bot process, no network binding.
	ModeWorker Mode = "worker"
)

// Bootstrap is the high-level entry point: it loads configuration,
// runs the preparation sequence, and launches the downstream process.
type Bootstrap struct {
	cfg      config.Config
	dir      string
	cfgFile  string
	logger   *slog.Logger
	metrics  *observability.Metrics
	prepOpts []prepare.Option
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrap) {
		b.logger = logger
	}
}

// WithConfigFile reads configuration from an explicit path instead of
// dir/stagehand.yaml. Unlike the default lookup, the file must exist.
func WithConfigFile(path string) Option {
	return func(b *Bootstrap) {
		b.cfgFile = path
	}
}

// WithMetrics attaches prometheus collectors to the preparation steps.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bootstrap) {
		b.metrics = m
	}
}

// WithPrepareOptions forwards extra options to the Preparer. Tests use
// it to inject fake runners and probes.
func WithPrepareOptions(opts ...prepare.Option) Option {
	return func(b *Bootstrap) {
		b.prepOpts = append(b.prepOpts, opts...)
	}
}

// New creates a Bootstrap for the project at dir, reading
// stagehand.yaml if present.
func New(dir string, opts ...Option) (*Bootstrap, error) {
	b := &Bootstrap{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	var err error
	if b.cfgFile != "" {
		b.cfg, err = config.LoadFile(b.cfgFile)
	} else {
		b.cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return b, nil
}

// Config exposes the resolved configuration.
func (b *Bootstrap) Config() config.Config {
	return b.cfg
}

// Prepare runs the environment preparation sequence. It always
// completes; failures of optional steps surface as report warnings.
func (b *Bootstrap) Prepare(ctx context.Context) prepare.Report {
	opts := []prepare.Option{prepare.WithLogger(b.logger)}
	if b.metrics != nil {
		opts = append(opts, prepare.WithMetrics(b.metrics))
	}
	opts = append(opts, b.prepOpts...)

	p := prepare.New(b.cfg, b.dir, opts...)
	return p.Run(ctx)
}

// Launch transfers control to the downstream process for mode and
// blocks until it exits, returning its exit code. This is the only
// fatal path of the bootstrap.
func (b *Bootstrap) Launch(ctx context.Context, mode Mode) (int, error) {
	argv, err := b.commandFor(mode)
	if err != nil {
		return 1, err
	}

	l := launch.New(launch.WithLogger(b.logger))
	return l.Run(ctx, b.dir, argv)
}

// commandFor resolves the downstream argv for a mode. Server mode
// additionally requires PORT to be set, matching the contract of the
// launched process.
func (b *Bootstrap) commandFor(mode Mode) ([]string, error) {
	switch mode {
	case ModeServer:
		if _, err := config.Port(); err != nil {
			return nil, err
		}
		return b.cfg.Server.Command, nil
	case ModeWorker:
		return b.cfg.Worker.Command, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
