package git

import (
	"errors"
	"fmt"
	"os"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type Repository struct {
	repo *gitc.Repository
	root string
}

// Open opens a pre-existing git repository in the given directory.
func Open(dir string) (*Repository, error) {
	repo, err := gitc.PlainOpenWithOptions(dir, &gitc.PlainOpenOptions{
		DetectDotGit: false,
	})
	if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	return &Repository{repo: repo, root: dir}, nil
}

// Init initializes a new non-bare repository in the given directory, with
// HEAD pointing at the given branch.
func Init(dir, branch string) (*Repository, error) {
	reference := plumbing.NewBranchReferenceName(branch)

	repo, err := gitc.PlainInitWithOptions(dir, &gitc.PlainInitOptions{
		Bare: false,
		InitOptions: gitc.InitOptions{
			DefaultBranch: reference,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("git: %w", err)
	}

	return &Repository{repo: repo, root: dir}, nil
}

// OpenOrInit opens the repository at dir, creating and initializing it if
// the directory does not hold one yet.
func OpenOrInit(dir, branch string) (*Repository, error) {
	repo, err := Open(dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, gitc.ErrRepositoryNotExists) {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}
	return Init(dir, branch)
}

func (r *Repository) IsNil() bool {
	return r.repo == nil
}

// Root returns the directory the repository was opened at.
func (r *Repository) Root() string {
	return r.root
}
