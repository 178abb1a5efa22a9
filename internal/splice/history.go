package splice

import (
	"fmt"
	"regexp"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/CyberShadow/git-splice/internal/git"
)

// reverseMergeRE matches git's synthetic message for a merge created by
// pulling the same branch from GitHub. In such commits the mainline
// continues through the second parent: the first parent is the local stub
// the contributor merged upstream into.
var reverseMergeRE = regexp.MustCompile(`^Merge branch '[^']+' of (?:\w+://|git@)?github\.com[:/]`)

// WalkLinear returns the mainline chain of commits reachable from head,
// newest first. The walk follows first parents, except through reverse-merge
// commits where it follows the second parent instead. A commit matching the
// reverse-merge marker with anything other than two parents fails the walk:
// guessing there would silently rewrite the wrong line of history.
func WalkLinear(repo *git.Repository, head plumbing.Hash) ([]*git.Commit, error) {
	var chain []*git.Commit

	for hash := head; !hash.IsZero(); {
		commit, err := repo.ReadCommit(hash)
		if err != nil {
			return nil, err
		}
		chain = append(chain, commit)

		switch {
		case len(commit.Parents) == 0:
			hash = plumbing.ZeroHash
		case len(commit.MessageLines) > 0 && reverseMergeRE.MatchString(commit.MessageLines[0]):
			if len(commit.Parents) != 2 {
				return nil, fmt.Errorf("reverse-merge commit %s has %d parents, expected 2", commit.Hash, len(commit.Parents))
			}
			hash = commit.Parents[1]
		default:
			hash = commit.Parents[0]
		}
	}

	return chain, nil
}
