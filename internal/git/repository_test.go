package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOrInit_InitializesMissingRepo(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "combined")

	repo, err := OpenOrInit(dir, "master")
	require.NoError(t, err)
	require.False(t, repo.IsNil())
	assert.Equal(t, dir, repo.Root())

	// HEAD exists and points at the requested branch.
	out, err := repo.RunGitCommandInRepo("symbolic-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/master\n", out)
}

func TestOpenOrInit_OpensExistingRepo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Init(dir, "master")
	require.NoError(t, err)

	repo, err := OpenOrInit(dir, "master")
	require.NoError(t, err)
	assert.False(t, repo.IsNil())
}

func TestOpen_MissingRepo(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	require.Error(t, err)
}
