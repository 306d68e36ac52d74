package prepare

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/radiofm/stagehand/internal/config"
)

// DepOutcome describes how the dependency step ended. Every outcome is
// non-fatal; the downstream process decides for itself whether it can
// live without the dependency.
type DepOutcome string

const (
	// DepPresent: the probe resolved before any install attempt.
	DepPresent DepOutcome = "present"
	// DepInstalled: the primary install attempt made the probe resolve.
	DepInstalled DepOutcome = "installed"
	// DepDegraded: only the narrower fallback install succeeded.
	DepDegraded DepOutcome = "degraded"
	// DepMissing: both attempts ran and the probe still fails.
	DepMissing DepOutcome = "missing"
)

// LookPathFunc resolves an executable name on the search path.
// exec.LookPath in production.
type LookPathFunc func(name string) (string, error)

// installer performs the fixed two-attempt install policy: a full
// install first, then a narrower retry with transitive recommends
// suppressed. No loop, no backoff.
type installer struct {
	cfg      config.DependenciesConfig
	runner   Runner
	lookPath LookPathFunc
	logger   *slog.Logger
}

func newInstaller(cfg config.DependenciesConfig, runner Runner, lookPath LookPathFunc, logger *slog.Logger) *installer {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &installer{cfg: cfg, runner: runner, lookPath: lookPath, logger: logger}
}

// ensure probes for the dependency and installs it if needed. The
// returned warnings describe install failures that were swallowed.
func (in *installer) ensure(ctx context.Context) (DepOutcome, []string) {
	if in.resolves() {
		in.logger.Info("dependency already available", "probe", in.cfg.Probe)
		return DepPresent, nil
	}

	var warnings []string

	if err := in.runner.Run(ctx, "apt-get", "update"); err != nil {
		in.logger.Warn("package index refresh failed", "error", err)
		warnings = append(warnings, err.Error())
	}
	args := append([]string{"install", "-y"}, in.cfg.Packages...)
	if err := in.runner.Run(ctx, "apt-get", args...); err != nil {
		in.logger.Warn("primary install attempt failed", "error", err)
		warnings = append(warnings, err.Error())
	}
	if in.resolves() {
		in.logger.Info("dependency installed", "probe", in.cfg.Probe)
		return DepInstalled, warnings
	}

	// Narrower retry: just the probe package, no recommends.
	if err := in.runner.Run(ctx, "apt-get", "install", "-y", "--no-install-recommends", in.cfg.Probe); err != nil {
		in.logger.Warn("fallback install attempt failed", "error", err)
		warnings = append(warnings, err.Error())
	}
	if in.resolves() {
		in.logger.Info("dependency installed via fallback", "probe", in.cfg.Probe)
		return DepDegraded, warnings
	}

	in.logger.Warn("dependency unavailable after both install attempts", "probe", in.cfg.Probe)
	return DepMissing, warnings
}

func (in *installer) resolves() bool {
	if in.cfg.Probe == "" {
		return true
	}
	_, err := in.lookPath(in.cfg.Probe)
	return err == nil
}
