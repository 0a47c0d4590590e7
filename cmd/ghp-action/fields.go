package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) fieldsCmd() *cobra.Command {
	var (
		projectNumber int
		statusName    string
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List a project's fields and options to find the field-id and option-id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOwner(); err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ownerType, ownerID, err := client.ResolveOwner(ctx, a.cfg.Owner)
			if err != nil {
				return err
			}

			projects, err := client.ListProjects(ctx, ownerType, ownerID, a.cfg.Owner)
			if err != nil {
				return err
			}

			project, ok := findProject(projects, projectNumber)
			if !ok {
				return fmt.Errorf("project #%d not found for %s (%d projects)", projectNumber, a.cfg.Owner, len(projects))
			}

			fields, err := client.GetProjectFields(ctx, project.ID)
			if err != nil {
				return err
			}

			return printFields(cmd.OutOrStdout(), project, fields, statusName)
		},
	}

	cmd.Flags().IntVar(&projectNumber, "project", 0, "Project number")
	cmd.Flags().StringVar(&statusName, "status", "", "Option name to print the field-id/option-id pair for (e.g. Done)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func findProject(projects []domain.Project, number int) (domain.Project, bool) {
	for _, p := range projects {
		if p.Number == number {
			return p, true
		}
	}
	return domain.Project{}, false
}

// printFields writes the project's fields, marking the detected status field
// with '*'. With statusName set it finishes with the settings to use.
func printFields(w io.Writer, project domain.Project, fields []domain.FieldDef, statusName string) error {
	status, _, err := domain.SelectStatusField(fields)
	if err != nil && !errors.Is(err, domain.ErrNoSingleSelect) {
		return err
	}

	fmt.Fprintf(w, "Project: %s (#%d) ID=%s\n\n", project.Title, project.Number, project.ID)
	fmt.Fprintf(w, "Fields (%d):\n", len(fields))
	for _, f := range fields {
		marker := " "
		if status != nil && f.ID == status.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (type=%s) ID=%s\n", marker, f.Name, f.Type, f.ID)
		for _, opt := range f.Options {
			fmt.Fprintf(w, "      Option: %s ID=%s\n", opt.Name, opt.ID)
		}
	}

	if statusName == "" {
		return nil
	}
	if status == nil {
		return errors.New("no status field could be detected; pick the field ID from the list above")
	}

	opt, ok := status.OptionByName(statusName)
	if !ok {
		return fmt.Errorf("field %q has no option named %q", status.Name, statusName)
	}

	fmt.Fprintf(w, "\nfield-id: %s\noption-id: %s\n", status.ID, opt.ID)
	return nil
}
