package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpliceRef(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "refs/splice/libA/master", SpliceRef("libA", "master"))
}

func TestFetchSource_LocalRepo(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	src, err := gitc.PlainInitWithOptions(srcDir, &gitc.PlainInitOptions{
		InitOptions: gitc.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("master"),
		},
	})
	require.NoError(t, err)

	wt, err := src.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "f.txt"), []byte("x"), 0o644))
	_, err = wt.Add("f.txt")
	require.NoError(t, err)
	sig := &object.Signature{Name: "test", Email: "test@test.com", When: time.Unix(100, 0)}
	want, err := wt.Commit("one", &gitc.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	repo := initTestRepo(t)

	ref, err := repo.FetchSource(context.Background(), "libA", srcDir, "master")
	require.NoError(t, err)
	assert.Equal(t, "refs/splice/libA/master", ref)

	got, err := repo.ResolveRef(ref)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Refetching an unchanged source is not an error.
	_, err = repo.FetchSource(context.Background(), "libA", srcDir, "master")
	require.NoError(t, err)
}

func TestFetchSource_MissingBranch(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	_, err := gitc.PlainInit(srcDir, false)
	require.NoError(t, err)

	repo := initTestRepo(t)

	_, err = repo.FetchSource(context.Background(), "libA", srcDir, "nonexistent")
	require.Error(t, err)
}
