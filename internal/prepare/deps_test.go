package prepare

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiofm/stagehand/internal/config"
	"github.com/radiofm/stagehand/internal/logging"
)

// fakeRunner records invocations and optionally flips a switch when a
// given command runs, simulating a package manager that actually
// installs something.
type fakeRunner struct {
	calls   []string
	failAll bool
	onRun   func(call string)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.onRun != nil {
		f.onRun(call)
	}
	if f.failAll {
		return errors.New("exit status 100")
	}
	return nil
}

func depsConfig() config.DependenciesConfig {
	return config.DependenciesConfig{
		Probe:    "ffmpeg",
		Packages: []string{"ffmpeg", "libopus0"},
	}
}

func TestInstallerEnsure(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()

	t.Run("Probe Success Short-Circuits", func(t *testing.T) {
		runner := &fakeRunner{}
		lookPath := func(string) (string, error) { return "/usr/bin/ffmpeg", nil }

		in := newInstaller(depsConfig(), runner, lookPath, logger)
		outcome, warnings := in.ensure(ctx)

		assert.Equal(t, DepPresent, outcome)
		assert.Empty(t, warnings)
		// No install action may run when the first probe resolves.
		assert.Empty(t, runner.calls)
	})

	t.Run("Primary Install Succeeds", func(t *testing.T) {
		available := false
		runner := &fakeRunner{}
		runner.onRun = func(call string) {
			if call == "apt-get install -y ffmpeg libopus0" {
				available = true
			}
		}
		lookPath := func(string) (string, error) {
			if available {
				return "/usr/bin/ffmpeg", nil
			}
			return "", errors.New("not found")
		}

		in := newInstaller(depsConfig(), runner, lookPath, logger)
		outcome, warnings := in.ensure(ctx)

		assert.Equal(t, DepInstalled, outcome)
		assert.Empty(t, warnings)
		require.Len(t, runner.calls, 2)
		assert.Equal(t, "apt-get update", runner.calls[0])
		assert.Equal(t, "apt-get install -y ffmpeg libopus0", runner.calls[1])
	})

	t.Run("Fallback Install Succeeds", func(t *testing.T) {
		available := false
		runner := &fakeRunner{}
		runner.onRun = func(call string) {
			if call == "apt-get install -y --no-install-recommends ffmpeg" {
				available = true
			}
		}
		lookPath := func(string) (string, error) {
			if available {
				return "/usr/bin/ffmpeg", nil
			}
			return "", errors.New("not found")
		}

		in := newInstaller(depsConfig(), runner, lookPath, logger)
		outcome, _ := in.ensure(ctx)

		assert.Equal(t, DepDegraded, outcome)
		require.Len(t, runner.calls, 3)
		assert.Equal(t, "apt-get install -y --no-install-recommends ffmpeg", runner.calls[2])
	})

	t.Run("Both Attempts Fail Is Non-Fatal", func(t *testing.T) {
		runner := &fakeRunner{failAll: true}
		lookPath := func(string) (string, error) { return "", errors.New("not found") }

		in := newInstaller(depsConfig(), runner, lookPath, logger)
		outcome, warnings := in.ensure(ctx)

		assert.Equal(t, DepMissing, outcome)
		// update, primary, fallback: all three failures become warnings.
		assert.Len(t, warnings, 3)
		assert.Len(t, runner.calls, 3)
	})

	t.Run("Exactly Two Install Attempts", func(t *testing.T) {
		runner := &fakeRunner{failAll: true}
		lookPath := func(string) (string, error) { return "", errors.New("not found") }

		in := newInstaller(depsConfig(), runner, lookPath, logger)
		in.ensure(ctx)

		installs := 0
		for _, call := range runner.calls {
			if strings.Contains(call, "install") {
				installs++
			}
		}
		assert.Equal(t, 2, installs)
	})

	t.Run("Empty Probe Means Nothing To Do", func(t *testing.T) {
		runner := &fakeRunner{}
		in := newInstaller(config.DependenciesConfig{}, runner, nil, logger)
		outcome, warnings := in.ensure(ctx)

		assert.Equal(t, DepPresent, outcome)
		assert.Empty(t, warnings)
		assert.Empty(t, runner.calls)
	})
}
