package splice

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkLinear_FirstParentChain(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t)

	c1 := fileCommit(t, repo, map[string]string{"a.txt": "1"}, nil, "first", 10)
	c2 := fileCommit(t, repo, map[string]string{"a.txt": "2"}, []plumbing.Hash{c1.Hash}, "second", 20)
	c3 := fileCommit(t, repo, map[string]string{"a.txt": "3"}, []plumbing.Hash{c2.Hash}, "third", 30)

	chain, err := WalkLinear(repo, c3.Hash)
	require.NoError(t, err)

	require.Len(t, chain, 3)
	assert.Equal(t, c3.Hash, chain[0].Hash)
	assert.Equal(t, c2.Hash, chain[1].Hash)
	assert.Equal(t, c1.Hash, chain[2].Hash)
}

func TestWalkLinear_OrdinaryMergeFollowsFirstParent(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t)

	mainline := fileCommit(t, repo, map[string]string{"a.txt": "main"}, nil, "mainline", 10)
	side := fileCommit(t, repo, map[string]string{"a.txt": "side"}, nil, "side work", 11)
	merge := fileCommit(t, repo, map[string]string{"a.txt": "merged"},
		[]plumbing.Hash{mainline.Hash, side.Hash}, "Merge side work", 20)

	chain, err := WalkLinear(repo, merge.Hash)
	require.NoError(t, err)

	require.Len(t, chain, 2)
	assert.Equal(t, merge.Hash, chain[0].Hash)
	assert.Equal(t, mainline.Hash, chain[1].Hash)
}

func TestWalkLinear_ReverseMergeFollowsSecondParent(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t)

	// The local stub the contributor merged upstream into is the first
	// parent; mainline continues through the second.
	stub := fileCommit(t, repo, map[string]string{"a.txt": "stub"}, nil, "local stub", 5)
	upstream1 := fileCommit(t, repo, map[string]string{"a.txt": "u1"}, nil, "upstream one", 10)
	upstream2 := fileCommit(t, repo, map[string]string{"a.txt": "u2"}, []plumbing.Hash{upstream1.Hash}, "upstream two", 20)
	merge := fileCommit(t, repo, map[string]string{"a.txt": "merged"},
		[]plumbing.Hash{stub.Hash, upstream2.Hash},
		"Merge branch 'master' of github.com:alice/widget", 30)

	chain, err := WalkLinear(repo, merge.Hash)
	require.NoError(t, err)

	require.Len(t, chain, 3)
	assert.Equal(t, merge.Hash, chain[0].Hash)
	assert.Equal(t, upstream2.Hash, chain[1].Hash)
	assert.Equal(t, upstream1.Hash, chain[2].Hash)
}

func TestWalkLinear_ReverseMergeMarkerVariants(t *testing.T) {
	t.Parallel()

	matching := []string{
		"Merge branch 'master' of github.com:alice/widget",
		"Merge branch 'main' of https://github.com/alice/widget",
		"Merge branch 'master' of git@github.com:alice/widget.git",
	}
	for _, msg := range matching {
		assert.True(t, reverseMergeRE.MatchString(msg), msg)
	}

	nonMatching := []string{
		"Merge branch 'feature/foo'",
		"Merge pull request #12 from alice/widget",
		"Merge branch 'master' of gitlab.com:alice/widget",
	}
	for _, msg := range nonMatching {
		assert.False(t, reverseMergeRE.MatchString(msg), msg)
	}
}

func TestWalkLinear_ReverseMergeWithOneParentFails(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t)

	parent := fileCommit(t, repo, map[string]string{"a.txt": "1"}, nil, "first", 10)
	bad := fileCommit(t, repo, map[string]string{"a.txt": "2"},
		[]plumbing.Hash{parent.Hash},
		"Merge branch 'master' of github.com:alice/widget", 20)

	_, err := WalkLinear(repo, bad.Hash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reverse-merge")
	assert.Contains(t, err.Error(), "1 parents")
}
