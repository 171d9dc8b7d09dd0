package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunner_CapturesStdout(t *testing.T) {
	res, err := NewLocalRunner().Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)

	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestLocalRunner_SeparatesStderr(t *testing.T) {
	res, err := NewLocalRunner().Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestLocalRunner_NonZeroExitIsNotAnError(t *testing.T) {
	res, err := NewLocalRunner().Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
}

func TestLocalRunner_MissingBinary(t *testing.T) {
	_, err := NewLocalRunner().Run(context.Background(), "definitely-not-a-command-fedimg")
	require.Error(t, err)
}

func TestLocalRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalRunner().Run(ctx, "sh", "-c", "sleep 5")
	require.Error(t, err)
}
