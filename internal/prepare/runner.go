package prepare

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes an external command to completion. The install step
// talks to the package manager through this port so tests can inject
// fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, inheriting the process
// environment. Output is captured and surfaced only on failure; package
// manager chatter on the happy path is noise.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a runner that logs through logger.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes the command and returns an error carrying the tail of
// its combined output when it fails.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Debug("running command", "cmd", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, tail(output.String(), 512))
	}
	return nil
}

// tail returns at most n trailing bytes of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
