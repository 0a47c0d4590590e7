package main

import (
	"fmt"

	"github.com/h0rv/ghp-action/internal/config"
	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/spf13/cobra"
)

// classicCmd groups commands for classic (pre-v2) project boards.
func (a *app) classicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classic",
		Short: "Inspect and update classic project boards",
	}

	cmd.AddCommand(a.classicProjectsCmd(), a.classicCardsCmd(), a.classicAddCmd())
	return cmd
}

func (a *app) classicProjectsCmd() *cobra.Command {
	var name, scope string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Find a classic project by name and list its columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			required := []string{config.Owner}
			if scope == "repo" {
				required = append(required, config.Repo)
			}
			if err := a.cfg.Require(required...); err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var projects []domain.ClassicProject
			switch scope {
			case "repo":
				projects, err = client.RepositoryProjects(ctx, a.cfg.Owner, a.cfg.Repo, name)
			case "org":
				projects, err = client.OrganizationProjects(ctx, a.cfg.Owner, name)
			case "user":
				projects, err = client.UserProjects(ctx, a.cfg.Owner, name)
			default:
				return fmt.Errorf("unknown scope %q (want repo, org or user)", scope)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintf(out, "No open project matching %q\n", name)
				return nil
			}
			for _, p := range projects {
				fmt.Fprintf(out, "%s ID=%s\n", p.Name, p.ID)
				for _, col := range p.Columns {
					fmt.Fprintf(out, "  Column: %s ID=%s\n", col.Name, col.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name to search for")
	cmd.Flags().StringVar(&scope, "scope", "repo", "Where the project lives: repo, org or user")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *app) classicCardsCmd() *cobra.Command {
	var issueURL string

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the classic project cards of an issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			cards, err := client.IssueCards(cmd.Context(), issueURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cards (%d):\n", len(cards))
			for _, c := range cards {
				archived := ""
				if c.IsArchived {
					archived = " (archived)"
				}
				fmt.Fprintf(out, "  %s on %s ID=%s%s\n", c.ID, c.ProjectName, c.ProjectID, archived)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&issueURL, "issue-url", "", "Issue URL")
	_ = cmd.MarkFlagRequired("issue-url")

	return cmd
}

func (a *app) classicAddCmd() *cobra.Command {
	var columnID, issueID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an issue to a classic project column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			if a.cfg.DryRun {
				a.log.Infow("Dry run: would add issue to column", "issue", issueID, "column", columnID)
				return nil
			}

			if _, err := client.AddIssueToColumn(cmd.Context(), columnID, issueID); err != nil {
				return err
			}
			a.log.Infow("Added issue to column", "issue", issueID, "column", columnID)
			return nil
		},
	}

	cmd.Flags().StringVar(&columnID, "column", "", "Column node ID")
	cmd.Flags().StringVar(&issueID, "issue", "", "Issue node ID")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("issue")

	return cmd
}
