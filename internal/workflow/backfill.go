package workflow

import (
	"context"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/h0rv/ghp-action/internal/gh"
)

// Limits bound the backfill walk.
type Limits struct {
	MaxPages  int // pull request pages fetched across all branches
	MaxIssues int // issues collected before the walk stops
}

// DefaultLimits are used for any non-positive field of the Limits passed to
// Backfill.
var DefaultLimits = Limits{
	MaxPages:  gh.DefaultMaxPages,
	MaxIssues: 500,
}

func (l Limits) withDefaults() Limits {
	if l.MaxPages <= 0 {
		l.MaxPages = DefaultLimits.MaxPages
	}
	if l.MaxIssues <= 0 {
		l.MaxIssues = DefaultLimits.MaxIssues
	}
	return l
}

// Backfill moves every issue closed by pull requests into branch, and by pull
// requests into those pull requests' head branches, transitively.
func (w *PRMerge) Backfill(ctx context.Context, branch string, limits Limits) error {
	issues, err := w.CollectNestedIssues(ctx, branch, limits)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		w.skip("no issues are closed by pull requests into " + branch)
		return nil
	}

	if err := w.updateIssues(ctx, issues); err != nil {
		return err
	}

	w.journal.Complete()
	return nil
}

// CollectNestedIssues walks branches breadth-first starting at branch. For
// each branch it pages through every pull request targeting it, collects the
// closing issues and queues the pull request's head branch. Each branch is
// visited once. The walk stops early once the page or issue limit is hit.
func (w *PRMerge) CollectNestedIssues(ctx context.Context, branch string, limits Limits) ([]domain.IssueRef, error) {
	limits = limits.withDefaults()

	queue := []string{branch}
	visited := map[string]bool{branch: true}
	pages := 0
	var issues []domain.IssueRef

	for len(queue) > 0 {
		if pages >= limits.MaxPages {
			w.log.Warnw("Page limit reached, skipping remaining branches", "limit", limits.MaxPages, "pending", len(queue))
			break
		}

		current := queue[0]
		queue = queue[1:]
		w.log.Debugw("Listing pull requests", "branch", current)

		pager := gh.NewPager(func(ctx context.Context, cursor string) (domain.PullRequestPage, error) {
			return w.api.PullRequestsPage(ctx, w.opts.Owner, w.opts.Repo, current, cursor)
		}, limits.MaxPages-pages)

		for page, err := range pager.All(ctx) {
			if err != nil {
				return nil, err
			}
			pages++

			for _, pr := range page.PullRequests {
				for _, issue := range pr.ClosingIssues {
					issues = append(issues, issue)
					if len(issues) >= limits.MaxIssues {
						w.log.Warnw("Issue limit reached", "limit", limits.MaxIssues)
						return issues, nil
					}
				}

				head := pr.HeadRefName
				if head != "" && !visited[head] {
					visited[head] = true
					queue = append(queue, head)
				}
			}
		}
	}

	return issues, nil
}
