package splice

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"

	"github.com/CyberShadow/git-splice/internal/git"
)

// ResolveSubtrees locates, for every step, the tree object of that source's
// configured subtree within the step's commit. The returned slice parallels
// steps; ZeroHash marks a commit where the subtree path does not exist. A
// source with an empty subtree path resolves to the commit's root tree.
//
// Resolution proceeds depth by depth so the tree objects needed at each
// level can be read as one bounded-concurrency batch.
func ResolveSubtrees(ctx context.Context, repo *git.Repository, steps []Step, jobs int) ([]plumbing.Hash, error) {
	resolved := make([]plumbing.Hash, len(steps))
	maxDepth := 0
	for i, s := range steps {
		resolved[i] = s.Commit.Tree
		if len(s.Source.SourceTree) > maxDepth {
			maxDepth = len(s.Source.SourceTree)
		}
	}

	for depth := 0; depth < maxDepth; depth++ {
		// Steps still descending: deeper path than the current depth and
		// not already found absent.
		var live []int
		for i, s := range steps {
			if len(s.Source.SourceTree) > depth && !resolved[i].IsZero() {
				live = append(live, i)
			}
		}
		if len(live) == 0 {
			break
		}

		hashes := make([]plumbing.Hash, 0, len(live))
		for _, i := range live {
			hashes = append(hashes, resolved[i])
		}
		trees, err := repo.ReadTrees(ctx, hashes, jobs)
		if err != nil {
			return nil, err
		}

		for _, i := range live {
			resolved[i] = lookupDir(trees[resolved[i]], steps[i].Source.SourceTree[depth])
		}
	}

	return resolved, nil
}

// lookupDir finds the subdirectory entry with the given name, or ZeroHash.
// A non-directory entry of the same name counts as absent: there is no tree
// to descend into.
func lookupDir(entries []git.TreeEntry, name string) plumbing.Hash {
	for _, e := range entries {
		if e.Name == name {
			if e.Mode == filemode.Dir {
				return e.Hash
			}
			return plumbing.ZeroHash
		}
	}
	return plumbing.ZeroHash
}
