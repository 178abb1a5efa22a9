package splice

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"

	"github.com/CyberShadow/git-splice/internal/git"
)

// foldState is the accumulator threaded through the sequential fold over
// merge steps. Each composeStep call takes the previous state and returns
// the next; nothing else touches it.
type foldState struct {
	// dirs maps each target directory to the subtree hash of its source's
	// most recent non-absent resolution. Entries are only ever added or
	// overwritten; an absent resolution is "no relevant change", not a
	// deletion.
	dirs map[string]plumbing.Hash
	// prevTree is the composed root tree of the previous step, for collapse
	// detection.
	prevTree plumbing.Hash
	// tip is the most recently emitted commit, parent of the next one.
	tip plumbing.Hash
	// emitted counts output commits.
	emitted int
}

func newFoldState() foldState {
	return foldState{dirs: map[string]plumbing.Hash{}}
}

// composeStep advances the fold by one merge step: fold in the step's
// resolved subtree, write the composed root tree, and rewrite the step's
// commit on top of the chain so far. A step whose composed tree is identical
// to the previous step's collapses: the source's change did not touch the
// spliced paths, so no commit is emitted.
func composeStep(repo *git.Repository, st foldState, step Step, resolved plumbing.Hash) (foldState, error) {
	if !resolved.IsZero() {
		st.dirs[step.Source.TargetDir] = resolved
	}

	entries := make([]git.TreeEntry, 0, len(st.dirs))
	for name, hash := range st.dirs {
		entries = append(entries, git.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash})
	}
	treeHash, err := repo.WriteTree(entries)
	if err != nil {
		return st, err
	}

	if treeHash == st.prevTree {
		return st, nil
	}
	st.prevTree = treeHash

	message := make([]string, len(step.Commit.MessageLines))
	copy(message, step.Commit.MessageLines)
	if len(message) == 0 {
		message = []string{""}
	}
	message[0] = step.Source.Name + ": " + message[0]

	var parents []plumbing.Hash
	if !st.tip.IsZero() {
		parents = []plumbing.Hash{st.tip}
	}

	tip, err := repo.WriteCommit(&git.Commit{
		Parents:      parents,
		Tree:         treeHash,
		MessageLines: message,
		Author:       step.Commit.Author,
		Committer:    step.Commit.Committer,
	})
	if err != nil {
		return st, err
	}
	st.tip = tip
	st.emitted++

	return st, nil
}

// Compose runs the fold over all steps and returns the final tip and the
// number of commits emitted. The fold is strictly sequential: every step's
// tree and parent depend on the state left by the one before it.
func Compose(repo *git.Repository, steps []Step, resolved []plumbing.Hash) (plumbing.Hash, int, error) {
	st := newFoldState()
	for i, step := range steps {
		var err error
		st, err = composeStep(repo, st, step, resolved[i])
		if err != nil {
			return plumbing.ZeroHash, 0, err
		}
	}
	return st.tip, st.emitted, nil
}
