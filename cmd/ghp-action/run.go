package main

import (
	"strconv"

	"github.com/h0rv/ghp-action/internal/config"
	"github.com/h0rv/ghp-action/internal/event"
	"github.com/h0rv/ghp-action/internal/store"
	"github.com/h0rv/ghp-action/internal/workflow"
	"github.com/spf13/cobra"
)

// runMerge handles the triggering event: merged pull requests run the status
// workflow, anything else is a no-op. Settings and the token are only checked
// once the pull request is known to be merged.
func (a *app) runMerge(cmd *cobra.Command, args []string) error {
	trigger, err := event.Load(a.cfg.Event.Name, a.cfg.Event.Path)
	if err != nil {
		return err
	}
	if !trigger.IsPullRequest() {
		a.log.Infow("Event is not a pull request, nothing to do", "event", trigger.Name)
		return nil
	}
	if pr := trigger.PullRequest; pr == nil || !pr.Merged {
		journal := store.New()
		journal.Skip(workflow.ReasonNotMerged)
		a.log.Info(workflow.ReasonNotMerged)
		a.report(journal)
		a.writeOutputs(journal)
		return nil
	}

	w, err := a.workflow()
	if err != nil {
		return err
	}

	runErr := w.Run(cmd.Context(), trigger.PullRequest)
	a.report(w.Journal())
	if runErr != nil {
		return runErr
	}
	a.writeOutputs(w.Journal())
	return nil
}

func (a *app) backfillCmd() *cobra.Command {
	var (
		branch string
		limits workflow.Limits
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Move every issue closed by pull requests into a branch, following head branches",
		Long: `backfill pages through every pull request targeting --branch, collects the
issues they close, then repeats for each of those pull requests' head branches.
Each branch is visited once and the walk stops at --max-pages or --max-issues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.workflow()
			if err != nil {
				return err
			}

			runErr := w.Backfill(cmd.Context(), branch, limits)
			a.report(w.Journal())
			if runErr != nil {
				return runErr
			}
			a.writeOutputs(w.Journal())
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Base branch to start from")
	cmd.Flags().IntVar(&limits.MaxPages, "max-pages", workflow.DefaultLimits.MaxPages, "Maximum pull request pages to fetch")
	cmd.Flags().IntVar(&limits.MaxIssues, "max-issues", workflow.DefaultLimits.MaxIssues, "Maximum issues to collect")
	_ = cmd.MarkFlagRequired("branch")

	return cmd
}

func (a *app) workflow() (*workflow.PRMerge, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := a.client()
	if err != nil {
		return nil, err
	}

	opts := workflow.Options{
		Owner:    a.cfg.Owner,
		Repo:     a.cfg.Repo,
		FieldID:  a.cfg.FieldID,
		OptionID: a.cfg.OptionID,
		DryRun:   a.cfg.DryRun,
	}
	return workflow.NewPRMerge(client, opts, store.New(), a.log), nil
}

func (a *app) report(journal *store.Journal) {
	s := journal.Summary()
	a.log.Infow("Run summary",
		"outcome", s.Outcome,
		"reason", s.Reason,
		"issues", s.Issues,
		"updated", s.Updated,
		"planned", s.Planned,
		"dryRun", a.cfg.DryRun,
	)
}

// writeOutputs sets the step outputs. Outside a runner there is no output
// file and nothing is written.
func (a *app) writeOutputs(journal *store.Journal) {
	if a.cfg.Output == "" {
		return
	}

	s := journal.Summary()
	a.gha.SetOutput("outcome", s.Outcome)
	a.gha.SetOutput("issues", strconv.Itoa(s.Issues))
	a.gha.SetOutput("updated-items", strconv.Itoa(s.Updated))
	a.gha.SetOutput("planned-items", strconv.Itoa(s.Planned))
}

// requireOwner is shared by commands that only need to know the owner.
func (a *app) requireOwner() error {
	return a.cfg.Require(config.Owner)
}
