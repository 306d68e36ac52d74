// Package launch hands control to the downstream process. The launcher
// does not outlive its child: signals are forwarded, stdio is shared,
// and the child's exit code becomes ours.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// ErrNoCommand is returned when a mode has no downstream argv
// configured.
var ErrNoCommand = errors.New("no downstream command configured")

// Launcher runs one downstream process to completion.
type Launcher struct {
	logger *slog.Logger
	// expand resolves ${VAR} references inside argv elements.
	expand func(string) string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// WithExpand overrides the environment lookup used for argv expansion.
func WithExpand(fn func(string) string) Option {
	return func(l *Launcher) {
		l.expand = fn
	}
}

// New creates a Launcher.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		logger: slog.Default(),
		expand: os.Getenv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run starts argv in dir and blocks until it exits. The returned int is
// the child's exit code; err is non-nil only when the child could not
// be started or was torn down abnormally. SIGINT and SIGTERM received
// while the child runs are forwarded to it, and ctx cancellation kills
// it.
func (l *Launcher) Run(ctx context.Context, dir string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 1, ErrNoCommand
	}

	expanded := make([]string, len(argv))
	for i, arg := range argv {
		expanded[i] = os.Expand(arg, l.expand)
	}

	cmd := exec.Command(expanded[0], expanded[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.logger.Info("launching downstream process", "cmd", expanded[0], "args", expanded[1:])

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start %s: %w", expanded[0], err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-sigs:
			l.logger.Info("forwarding signal", "signal", sig.String())
			_ = cmd.Process.Signal(sig)
		case <-ctx.Done():
			_ = cmd.Process.Kill()
			<-done
			return 1, ctx.Err()
		case err := <-done:
			return exitStatus(err)
		}
	}
}

// exitStatus maps a Wait error to the process exit code.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 1, fmt.Errorf("downstream process failed: %w", err)
}
