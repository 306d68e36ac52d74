package launch

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiofm/stagehand/internal/logging"
)

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests rely on sh")
	}
}

func TestLauncherRun(t *testing.T) {
	ctx := context.Background()
	launcher := New(WithLogger(logging.NewNop()))

	t.Run("Propagates Zero Exit", func(t *testing.T) {
		skipWithoutSh(t)

		code, err := launcher.Run(ctx, t.TempDir(), []string{"sh", "-c", "exit 0"})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("Propagates Non-Zero Exit", func(t *testing.T) {
		skipWithoutSh(t)

		code, err := launcher.Run(ctx, t.TempDir(), []string{"sh", "-c", "exit 3"})
		require.NoError(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("Child Inherits Environment", func(t *testing.T) {
		skipWithoutSh(t)
		t.Setenv("STAGEHAND_MANAGED", "1")

		code, err := launcher.Run(ctx, t.TempDir(), []string{"sh", "-c", `test "$STAGEHAND_MANAGED" = "1"`})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("Expands Argv References", func(t *testing.T) {
		skipWithoutSh(t)

		l := New(
			WithLogger(logging.NewNop()),
			WithExpand(func(key string) string {
				if key == "CODE" {
					return "7"
				}
				return ""
			}),
		)

		code, err := l.Run(ctx, t.TempDir(), []string{"sh", "-c", "exit ${CODE}"})
		require.NoError(t, err)
		assert.Equal(t, 7, code)
	})

	t.Run("Start Failure Is Fatal", func(t *testing.T) {
		_, err := launcher.Run(ctx, t.TempDir(), []string{"definitely-not-a-real-binary-9000"})
		assert.Error(t, err)
	})

	t.Run("Empty Command Is Rejected", func(t *testing.T) {
		_, err := launcher.Run(ctx, t.TempDir(), nil)
		assert.ErrorIs(t, err, ErrNoCommand)
	})

	t.Run("Context Cancellation Kills Child", func(t *testing.T) {
		skipWithoutSh(t)

		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := launcher.Run(cancelCtx, t.TempDir(), []string{"sh", "-c", "sleep 30"})
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}
