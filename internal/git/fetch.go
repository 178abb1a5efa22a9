package git

import (
	"context"
	"errors"
	"fmt"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// SpliceRef returns the namespaced local ref a source's branch is fetched
// into.
func SpliceRef(name, branch string) string {
	return fmt.Sprintf("refs/splice/%s/%s", name, branch)
}

// FetchSource fetches one branch of a source repository into the splice ref
// namespace and returns the local ref name. The refspec is forced so a
// rewritten upstream never wedges a later run.
func (r *Repository) FetchSource(ctx context.Context, name, url, branch string) (string, error) {
	localRef := SpliceRef(name, branch)

	remote, err := r.repo.CreateRemoteAnonymous(&config.RemoteConfig{
		Name: "anonymous",
		URLs: []string{url},
	})
	if err != nil {
		return "", fmt.Errorf("failed to configure remote for %s: %w", url, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), localRef))
	err = remote.FetchContext(ctx, &gitc.FetchOptions{
		RefSpecs: []config.RefSpec{refSpec},
		Tags:     gitc.NoTags,
		Force:    true,
	})
	if err != nil && !errors.Is(err, gitc.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("failed to fetch %s from %s: %w", branch, url, err)
	}

	return localRef, nil
}
