// Package splice rewrites the mainline histories of several source
// repositories into one combined repository: each source's tree (or a chosen
// subtree) lands under its own top-level directory, and a single linear
// chain of commits replays the merged timeline of all sources.
package splice

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/CyberShadow/git-splice/internal/concurrency"
	"github.com/CyberShadow/git-splice/internal/git"
	"github.com/CyberShadow/git-splice/internal/log"
	"github.com/CyberShadow/git-splice/internal/manifest"
)

type Options struct {
	// TargetBranch is force-updated to the spliced tip at the end of the
	// run.
	TargetBranch string
	// SourceBranch is fetched from sources whose URL names no branch.
	SourceBranch string
	// Jobs bounds concurrent fetches and batched object reads.
	Jobs int
	// DryRun computes the full splice but publishes nothing.
	DryRun bool
}

type Result struct {
	Tip     plumbing.Hash
	Steps   int
	Emitted int
}

// Run executes a full splice. Any failure aborts the run; the target branch
// is only touched at the very end, so objects written before an abort are
// unreferenced and harmless.
func Run(ctx context.Context, repo *git.Repository, sources []manifest.Source, opts Options) (*Result, error) {
	logger := log.From(ctx)

	lock := concurrency.NewRepoLock(filepath.Join(repo.Root(), ".git"))
	if err := lock.Acquire(); err != nil {
		return nil, errors.Wrap(err, "locking repository")
	}
	defer lock.Release()

	// Fetches have no data dependency on each other; only their count is
	// bounded.
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	refs := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range sources {
		i, src := i, sources[i]
		g.Go(func() error {
			branch := src.Branch
			if branch == "" {
				branch = opts.SourceBranch
			}
			logger.Infof("fetching %s (%s#%s)", src.Name, src.URL, branch)
			ref, err := repo.FetchSource(gctx, src.Name, src.URL, branch)
			if err != nil {
				return errors.Wrapf(err, "fetching %s", src.Name)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chains := make([][]*git.Commit, len(sources))
	for i := range sources {
		head, err := repo.ResolveRef(refs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "resolving head of %s", sources[i].Name)
		}
		chain, err := WalkLinear(repo, head)
		if err != nil {
			return nil, errors.Wrapf(err, "walking history of %s", sources[i].Name)
		}
		logger.Infof("%s: walked %d commits", sources[i].Name, len(chain))
		chains[i] = chain
	}

	steps := MergeChronological(sources, chains)
	logger.Infof("merged timeline: %d steps", len(steps))

	resolved, err := ResolveSubtrees(ctx, repo, steps, jobs)
	if err != nil {
		return nil, errors.Wrap(err, "resolving subtrees")
	}

	tip, emitted, err := Compose(repo, steps, resolved)
	if err != nil {
		return nil, errors.Wrap(err, "composing history")
	}
	if tip.IsZero() {
		return nil, errors.New("no commits produced; are the sources empty?")
	}
	logger.Infof("composed %d commits, tip %s", emitted, tip)

	result := &Result{Tip: tip, Steps: len(steps), Emitted: emitted}
	if opts.DryRun {
		return result, nil
	}

	reflogMsg := fmt.Sprintf("git-splice: splice of %d sources", len(sources))
	if err := repo.UpdateBranch(opts.TargetBranch, tip, reflogMsg); err != nil {
		return nil, errors.Wrapf(err, "updating branch %s", opts.TargetBranch)
	}
	if err := repo.ResetHard(opts.TargetBranch); err != nil {
		return nil, errors.Wrap(err, "resetting working copy")
	}

	return result, nil
}
