// Package domain defines the transient types passed between the GitHub client
// and the status workflow. Nothing here is persisted; every value is a snapshot
// of an API response taken during a single run.
package domain

// PullRequestRef is a pull request as listed under a base branch.
type PullRequestRef struct {
	ID            string     // GitHub PullRequest node ID
	BaseRefName   string     // Branch the PR targets
	HeadRefName   string     // Branch the PR is opened from
	Number        int        // PR number within the repository
	State         string     // OPEN, CLOSED or MERGED
	Cursor        string     // Edge cursor the PR was listed under
	ClosingIssues []IssueRef // Issues closed by this PR, in API order
}

// IssueRef identifies an issue referenced by a pull request.
type IssueRef struct {
	ID    string // GitHub Issue node ID
	Title string
	URL   string
}

// ProjectItemRef is an issue's membership record inside one project.
type ProjectItemRef struct {
	ItemID    string // GitHub ProjectV2Item node ID
	ProjectID string // Owning ProjectV2 node ID
}

// FieldUpdateRequest describes a single-select value to set on one project item.
type FieldUpdateRequest struct {
	ProjectID string
	FieldID   string
	ItemID    string
	OptionID  string
}

// PullRequestPage is one page of pull requests listed under a base branch.
type PullRequestPage struct {
	PullRequests []PullRequestRef
	EndCursor    string
	HasNextPage  bool
}

// Project represents a GitHub Project v2 instance.
type Project struct {
	ID     string // GitHub Project node ID
	Number int    // Project number within the owner's namespace
	Title  string // Project title
	Owner  string // Owner login (organization or user)
}

// FieldDef represents a project field definition with its metadata.
type FieldDef struct {
	ID      string   // GitHub field node ID
	Name    string   // Field name (e.g., "Status")
	Type    string   // Field type (e.g., "SINGLE_SELECT", "TEXT", etc.)
	Options []Option // Available options for SINGLE_SELECT fields
}

// Option represents a single option value for a SINGLE_SELECT field.
type Option struct {
	ID    string
	Name  string
	Color string
}

// ClassicProject is a legacy (projects classic) board.
type ClassicProject struct {
	ID      string
	Name    string
	Columns []ClassicColumn
}

// ClassicColumn is a column of a legacy board.
type ClassicColumn struct {
	ID   string
	Name string
}

// ClassicCard is an issue's card on a legacy board.
type ClassicCard struct {
	ID          string
	IsArchived  bool
	ProjectID   string
	ProjectName string
}

// FieldType constants for commonly used field types.
const (
	FieldTypeSingleSelect = "SINGLE_SELECT"
	FieldTypeText         = "TEXT"
	FieldTypeNumber       = "NUMBER"
	FieldTypeDate         = "DATE"
	FieldTypeIteration    = "ITERATION"
)

// Pull request states as reported by the API.
const (
	StateOpen   = "OPEN"
	StateMerged = "MERGED"
)
