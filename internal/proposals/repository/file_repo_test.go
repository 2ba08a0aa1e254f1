package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository(t *testing.T) {
	runContract(t, func(t *testing.T) ProposalRepository {
		return NewFileRepository(filepath.Join(t.TempDir(), "data", "proposals.json"), testClock())
	})
}

func TestFileRepository_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proposals.json")
	ctx := context.Background()

	saved, err := NewFileRepository(path, testClock()).Save(ctx, "kept", sampleDoc("kept"))
	require.NoError(t, err)

	got, err := NewFileRepository(path, testClock()).GetOne(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "kept", got.Name)
}

func TestFileRepository_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proposals.json")
	require.NoError(t, os.WriteFile(path, []byte("[{]"), 0o644))

	repo := NewFileRepository(path, testClock())
	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileRepository_Ping(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, NewFileRepository(filepath.Join(dir, "p.json"), nil).Ping(context.Background()))
	assert.Error(t, NewFileRepository(filepath.Join(dir, "missing", "p.json"), nil).Ping(context.Background()))
}
