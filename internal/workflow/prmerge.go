// Package workflow moves the issues closed by merged pull requests to a
// configured status in every project they belong to.
package workflow

import (
	"context"
	"fmt"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/h0rv/ghp-action/internal/event"
	"github.com/h0rv/ghp-action/internal/store"
	"go.uber.org/zap"
)

// ReasonNotMerged is the skip reason for a pull request closed without merging.
const ReasonNotMerged = "pull request was closed without merging"

// API is the subset of the GitHub client the workflow calls.
type API interface {
	LastPullRequests(ctx context.Context, owner, repo, branch string) ([]domain.PullRequestRef, error)
	PullRequestsPage(ctx context.Context, owner, repo, branch, cursor string) (domain.PullRequestPage, error)
	IssueProjectItems(ctx context.Context, issueID string) ([]domain.ProjectItemRef, error)
	UpdateItemField(ctx context.Context, update domain.FieldUpdateRequest) (string, error)
}

// Options are the per-run settings. FieldID and OptionID are applied to every
// project as-is; they are not looked up per project.
type Options struct {
	Owner    string
	Repo     string
	FieldID  string
	OptionID string
	DryRun   bool
}

// PRMerge runs the status update for a merged pull request.
type PRMerge struct {
	api     API
	opts    Options
	journal *store.Journal
	log     *zap.SugaredLogger
}

// NewPRMerge creates a workflow. A nil journal or logger is replaced with a
// fresh journal or a no-op logger.
func NewPRMerge(api API, opts Options, journal *store.Journal, log *zap.SugaredLogger) *PRMerge {
	if journal == nil {
		journal = store.New()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PRMerge{api: api, opts: opts, journal: journal, log: log}
}

// Journal returns the record of what the workflow did.
func (w *PRMerge) Journal() *store.Journal {
	return w.journal
}

// Run handles one pull request event. Unmerged pull requests, branches with no
// open pull requests and pull requests closing no issues end the run without
// error. The first API error aborts the run; updates already sent stay applied.
func (w *PRMerge) Run(ctx context.Context, pr *event.PullRequestInfo) error {
	if pr == nil || !pr.Merged {
		w.skip(ReasonNotMerged)
		return nil
	}

	branch := pr.BaseRef
	w.log.Infow("Destination branch", "branch", branch)

	prs, err := w.api.LastPullRequests(ctx, w.opts.Owner, w.opts.Repo, branch)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		w.skip(fmt.Sprintf("no pull requests found for %s", branch))
		return nil
	}
	if prs[0].Cursor == "" {
		w.skip("no cursor found for pull request")
		return nil
	}

	issues := CollectIssues(prs)
	if len(issues) == 0 {
		w.skip("no issues are closed by the pull requests")
		return nil
	}

	if err := w.updateIssues(ctx, issues); err != nil {
		return err
	}

	w.journal.Complete()
	return nil
}

// CollectIssues flattens the closing issues of prs in order. An issue closed
// by two pull requests appears twice.
func CollectIssues(prs []domain.PullRequestRef) []domain.IssueRef {
	var issues []domain.IssueRef
	for _, pr := range prs {
		issues = append(issues, pr.ClosingIssues...)
	}
	return issues
}

// updateIssues sets the configured option on every project item of every
// issue, in order.
func (w *PRMerge) updateIssues(ctx context.Context, issues []domain.IssueRef) error {
	for _, issue := range issues {
		w.log.Infow("Moving issue", "title", issue.Title, "url", issue.URL)
		w.journal.RecordIssue(issue)

		items, err := w.api.IssueProjectItems(ctx, issue.ID)
		if err != nil {
			return err
		}

		for _, item := range items {
			update := domain.FieldUpdateRequest{
				ProjectID: item.ProjectID,
				FieldID:   w.opts.FieldID,
				ItemID:    item.ItemID,
				OptionID:  w.opts.OptionID,
			}

			if w.opts.DryRun {
				w.log.Infow("Dry run: would update project item", "project", item.ProjectID, "item", item.ItemID)
				w.journal.RecordPlanned(update)
				continue
			}

			if _, err := w.api.UpdateItemField(ctx, update); err != nil {
				return err
			}
			w.log.Debugw("Updated project item", "project", item.ProjectID, "item", item.ItemID)
			w.journal.RecordUpdate(update)
		}
	}
	return nil
}

func (w *PRMerge) skip(reason string) {
	w.log.Info(reason)
	w.journal.Skip(reason)
}
