package git

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/go-git/go-git/v5/plumbing"
)

// RunGitCommand executes a native git command in the given directory and
// returns its stdout. It captures stdout and stderr separately, returning
// stderr in the error message on failure.
func RunGitCommand(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run git %s: %w - %s", args[0], err, errb.String())
	}

	return outb.String(), nil
}

// RunGitCommandInRepo executes a native git command in the repository's root
// directory.
func (r *Repository) RunGitCommandInRepo(args ...string) (string, error) {
	if r.root == "" {
		return "", fmt.Errorf("repository root not found")
	}
	return RunGitCommand(r.root, args...)
}

// UpdateBranch force-updates a branch reference with a reflog message.
// go-git's storer cannot record a reflog entry, so this goes through native
// git.
func (r *Repository) UpdateBranch(branch string, hash plumbing.Hash, reflogMsg string) error {
	ref := plumbing.NewBranchReferenceName(branch).String()
	if _, err := r.RunGitCommandInRepo("update-ref", "-m", reflogMsg, ref, hash.String()); err != nil {
		return err
	}
	return nil
}

// ResetHard points HEAD at the given branch and resets the working copy and
// index to it. HEAD is moved first: a pre-existing repository may be checked
// out on some other branch, and a bare reset there would leave the working
// copy untouched by the publish.
func (r *Repository) ResetHard(branch string) error {
	ref := plumbing.NewBranchReferenceName(branch).String()
	if _, err := r.RunGitCommandInRepo("symbolic-ref", "HEAD", ref); err != nil {
		return err
	}
	_, err := r.RunGitCommandInRepo("reset", "--hard")
	return err
}
