package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_GetAbsentKey(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))

	value, ok, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", value)
}

func TestKVRepo_SetAndGet(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "scan_history", `[{"id":"a"}]`))

	value, ok, err := repo.Get(ctx, "scan_history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestKVRepo_SetReplacesValue(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "first"))
	require.NoError(t, repo.Set(ctx, "k", "second"))

	value, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestKVRepo_Delete(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v"))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVRepo_DeleteAbsentKeyIsNoOp(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))

	assert.NoError(t, repo.Delete(context.Background(), "never-set"))
}

func TestKVRepo_KeysAreIndependent(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "scan_history", "a"))
	require.NoError(t, repo.Set(ctx, "settings", "b"))
	require.NoError(t, repo.Delete(ctx, "scan_history"))

	value, ok, err := repo.Get(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", value)
}

func TestKVRepo_LargeValue(t *testing.T) {
	repo := NewKVRepo(setupTestDB(t))
	ctx := context.Background()

	// Collections serialize to sizable JSON blobs; the TEXT column must
	// take them without truncation.
	large := strings.Repeat(`{"label":"State","value":"CA"},`, 50_000)
	require.NoError(t, repo.Set(ctx, "k", large))

	value, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, value, len(large))
}
