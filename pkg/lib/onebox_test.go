package lib_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/pkg/lib"
)

func newTestClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Engine: lib.EngineFake,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClientSandboxLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := newTestClient(t)
	ctx := context.Background()

	// Ensure twice: idempotent, same sandbox both times.
	first, err := client.EnsureSandbox(ctx, lib.SandboxConfig{Name: "dev", Image: "ubuntu:24.04"})
	require.NoError(err)
	assert.True(first.Running)

	second, err := client.EnsureSandbox(ctx, lib.SandboxConfig{Name: "dev", Image: "ubuntu:24.04"})
	require.NoError(err)
	assert.Equal(first.ID, second.ID)

	// Status reflects the running sandbox.
	sb, err := client.SandboxStatus(ctx, "dev")
	require.NoError(err)
	assert.Equal("dev", sb.Name)
	assert.True(sb.Running)

	// Remove twice: first removes, second is a no-op.
	removed, err := client.RemoveSandbox(ctx, "dev", nil)
	require.NoError(err)
	assert.True(removed)

	removed, err = client.RemoveSandbox(ctx, "dev", nil)
	require.NoError(err)
	assert.False(removed)
}

func TestClientRunCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := newTestClient(t)
	ctx := context.Background()

	// Running before ensuring fails with ErrNotFound.
	_, err := client.RunCommand(ctx, "dev", []string{"true"}, nil)
	assert.ErrorIs(err, lib.ErrNotFound)

	_, err = client.EnsureSandbox(ctx, lib.SandboxConfig{Name: "dev", Image: "ubuntu:24.04"})
	require.NoError(err)

	result, err := client.RunCommand(ctx, "dev", []string{"echo", "hello"}, nil)
	require.NoError(err)
	assert.Equal("echo hello\n", string(result.Stdout))
	assert.Empty(result.Stderr)
	require.NotNil(result.ExitCode)
	assert.Equal(0, *result.ExitCode)

	// An empty command is not valid.
	_, err = client.RunCommand(ctx, "dev", nil, nil)
	assert.ErrorIs(err, lib.ErrNotValid)
}

func TestClientHistory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.EnsureSandbox(ctx, lib.SandboxConfig{Name: "dev", Image: "ubuntu:24.04"})
	require.NoError(err)
	_, err = client.RunCommand(ctx, "dev", []string{"echo", "hello"}, nil)
	require.NoError(err)
	_, err = client.RemoveSandbox(ctx, "dev", nil)
	require.NoError(err)

	operations, err := client.History(ctx, 0)
	require.NoError(err)
	require.Len(operations, 3)

	// Newest first.
	assert.Equal(lib.OperationKindRemove, operations[0].Kind)
	assert.Equal(lib.OperationKindRun, operations[1].Kind)
	assert.Equal(lib.OperationKindEnsure, operations[2].Kind)

	for _, op := range operations {
		assert.Equal(lib.OperationStatusSucceeded, op.Status)
		assert.Equal("dev", op.SandboxName)
		assert.NotNil(op.FinishedAt)
	}

	// The run operation journals the command and its exit code.
	assert.Equal("echo hello", operations[1].Detail)
	require.NotNil(operations[1].ExitCode)
	assert.Equal(0, *operations[1].ExitCode)

	// The limit caps the listing.
	limited, err := client.History(ctx, 1)
	require.NoError(err)
	require.Len(limited, 1)
	assert.Equal(lib.OperationKindRemove, limited[0].Kind)
}

func TestClientInvalidEngine(t *testing.T) {
	_, err := lib.New(context.Background(), lib.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Engine: lib.EngineType("bogus"),
	})
	assert.ErrorIs(t, err, lib.ErrNotValid)
}
