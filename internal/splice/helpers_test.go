package splice

import (
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/CyberShadow/git-splice/internal/git"
)

// initTestRepo creates an empty temporary repository to forge objects in.
func initTestRepo(t *testing.T) *git.Repository {
	t.Helper()

	repo, err := git.Init(t.TempDir(), "master")
	require.NoError(t, err)
	return repo
}

// writeBlob forges a blob and returns its hash.
func writeBlob(t *testing.T, repo *git.Repository, content string) plumbing.Hash {
	t.Helper()

	hash, err := repo.WriteBlob([]byte(content))
	require.NoError(t, err)
	return hash
}

// writeTree forges a tree from (name, hash) pairs, files as regular blobs
// and subtrees as directories.
func writeTree(t *testing.T, repo *git.Repository, files map[string]plumbing.Hash, dirs map[string]plumbing.Hash) plumbing.Hash {
	t.Helper()

	var entries []git.TreeEntry
	for name, hash := range files {
		entries = append(entries, git.TreeEntry{Name: name, Mode: filemode.Regular, Hash: hash})
	}
	for name, hash := range dirs {
		entries = append(entries, git.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash})
	}

	hash, err := repo.WriteTree(entries)
	require.NoError(t, err)
	return hash
}

// writeCommit forges a commit with a fixed timestamp and returns its parsed
// form.
func writeCommit(t *testing.T, repo *git.Repository, tree plumbing.Hash, parents []plumbing.Hash, message string, ts int64) *git.Commit {
	t.Helper()

	sig := object.Signature{
		Name:  "test",
		Email: "test@test.com",
		When:  time.Unix(ts, 0),
	}
	hash, err := repo.WriteCommit(&git.Commit{
		Parents:      parents,
		Tree:         tree,
		MessageLines: strings.Split(message, "\n"),
		Author:       sig,
		Committer:    sig,
	})
	require.NoError(t, err)

	commit, err := repo.ReadCommit(hash)
	require.NoError(t, err)
	return commit
}

// fileCommit forges a commit whose tree holds the given files (path → blob
// content), with one level of directories expanded from "/" in paths.
func fileCommit(t *testing.T, repo *git.Repository, files map[string]string, parents []plumbing.Hash, message string, ts int64) *git.Commit {
	t.Helper()

	rootFiles := map[string]plumbing.Hash{}
	subdirs := map[string]map[string]plumbing.Hash{}
	for path, content := range files {
		blob := writeBlob(t, repo, content)
		if dir, name, ok := strings.Cut(path, "/"); ok {
			if subdirs[dir] == nil {
				subdirs[dir] = map[string]plumbing.Hash{}
			}
			subdirs[dir][name] = blob
		} else {
			rootFiles[path] = blob
		}
	}

	rootDirs := map[string]plumbing.Hash{}
	for dir, dirFiles := range subdirs {
		rootDirs[dir] = writeTree(t, repo, dirFiles, nil)
	}

	tree := writeTree(t, repo, rootFiles, rootDirs)
	return writeCommit(t, repo, tree, parents, message, ts)
}
