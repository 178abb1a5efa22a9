package splice

import (
	"sort"

	"github.com/samber/lo"

	"github.com/CyberShadow/git-splice/internal/git"
	"github.com/CyberShadow/git-splice/internal/manifest"
)

// Step is one unit of the merged timeline: a single commit of a single
// source.
type Step struct {
	Source *manifest.Source
	Commit *git.Commit
}

// MergeChronological flattens the per-source chains (each newest first, as
// walked) into one ascending timeline. The sort is stable, so ties keep
// their pre-sort order: grouped by source, then walk order within a source.
//
// Steps later than the newest head timestamp across all sources are dropped.
// Each chain is already bounded by its own head, so the filter only ever
// fires for a chain whose authoring times run past its head commit; it is
// kept as a clamp on that case.
func MergeChronological(sources []manifest.Source, chains [][]*git.Commit) []Step {
	var steps []Step
	for i := range sources {
		for _, commit := range chains[i] {
			steps = append(steps, Step{Source: &sources[i], Commit: commit})
		}
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Commit.Timestamp() < steps[j].Commit.Timestamp()
	})

	heads := lo.FilterMap(chains, func(chain []*git.Commit, _ int) (int64, bool) {
		if len(chain) == 0 {
			return 0, false
		}
		return chain[0].Timestamp(), true
	})
	if len(heads) == 0 {
		return nil
	}
	latestTime := lo.Max(heads)

	return lo.Filter(steps, func(s Step, _ int) bool {
		return s.Commit.Timestamp() <= latestTime
	})
}
