package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/log"
	"github.com/onebox-dev/onebox/internal/model"
	"github.com/onebox-dev/onebox/internal/storage/sqlite"
)

func operationFixture(id string) model.Operation {
	return model.Operation{
		ID:          id,
		Kind:        model.OperationKindEnsure,
		SandboxName: "dev",
		Status:      model.OperationStatusRunning,
		Detail:      "ubuntu:24.04",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	op := operationFixture("op-1")
	require.NoError(t, repo.CreateOperation(ctx, op))

	got, err := repo.GetOperation(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, model.OperationKindEnsure, got.Kind)
	assert.Equal(t, "dev", got.SandboxName)
	assert.Equal(t, "ubuntu:24.04", got.Detail)
	assert.Equal(t, op.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.ExitCode)
	assert.Nil(t, got.FinishedAt)

	// Finish the operation.
	now := time.Now().UTC().Truncate(time.Second)
	exitCode := 2
	op.Status = model.OperationStatusFailed
	op.Error = "command failed"
	op.ExitCode = &exitCode
	op.FinishedAt = &now
	require.NoError(t, repo.UpdateOperation(ctx, op))

	got, err = repo.GetOperation(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, model.OperationStatusFailed, got.Status)
	assert.Equal(t, "command failed", got.Error)
	require.NotNil(t, got.ExitCode)
	assert.Equal(t, 2, *got.ExitCode)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, now, *got.FinishedAt)
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.CreateOperation(ctx, operationFixture("op-1")))

	err := repo.CreateOperation(ctx, operationFixture("op-1"))
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))
}

func TestRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.GetOperation(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = repo.UpdateOperation(ctx, operationFixture("missing"))
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryListOperations(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	// ULID-shaped IDs order lexicographically by creation time.
	for i := 0; i < 5; i++ {
		op := operationFixture(fmt.Sprintf("01HZZZZZZZZZZZZZZZZZZZZZZ%d", i))
		require.NoError(t, repo.CreateOperation(ctx, op))
	}

	all, err := repo.ListOperations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "01HZZZZZZZZZZZZZZZZZZZZZZ4", all[0].ID)

	limited, err := repo.ListOperations(ctx, 3)
	require.NoError(t, err)
	require.Len(t, limited, 3)
	assert.Equal(t, "01HZZZZZZZZZZZZZZZZZZZZZZ2", limited[2].ID)
}
