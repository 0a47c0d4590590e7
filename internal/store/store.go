// Package store keeps the in-memory record of one workflow run: the issues
// that were processed and the field updates that were issued or planned.
// Nothing outlives the process.
package store

import (
	"github.com/h0rv/ghp-action/internal/domain"
)

// Outcome of a run, reported in the summary.
const (
	OutcomeSkipped   = "skipped"
	OutcomeCompleted = "completed"
)

// Journal records what a run did. It is not safe for concurrent use; the
// workflow issues calls strictly one after another.
type Journal struct {
	issues  []domain.IssueRef
	updates []domain.FieldUpdateRequest
	planned []domain.FieldUpdateRequest

	outcome string
	reason  string
}

// New creates a new empty Journal.
func New() *Journal {
	return &Journal{}
}

// RecordIssue notes that an issue was processed. Duplicates are kept so the
// journal mirrors the processing order.
func (j *Journal) RecordIssue(issue domain.IssueRef) {
	j.issues = append(j.issues, issue)
}

// RecordUpdate notes a field update that was sent to the API.
func (j *Journal) RecordUpdate(update domain.FieldUpdateRequest) {
	j.updates = append(j.updates, update)
}

// RecordPlanned notes a field update that a dry run skipped.
func (j *Journal) RecordPlanned(update domain.FieldUpdateRequest) {
	j.planned = append(j.planned, update)
}

// Skip marks the run as ended early by a guard.
func (j *Journal) Skip(reason string) {
	j.outcome = OutcomeSkipped
	j.reason = reason
}

// Complete marks the run as having processed every issue.
func (j *Journal) Complete() {
	j.outcome = OutcomeCompleted
	j.reason = ""
}

// Issues returns a copy of the processed issues in order.
func (j *Journal) Issues() []domain.IssueRef {
	result := make([]domain.IssueRef, len(j.issues))
	copy(result, j.issues)
	return result
}

// Updates returns a copy of the updates sent to the API in order.
func (j *Journal) Updates() []domain.FieldUpdateRequest {
	result := make([]domain.FieldUpdateRequest, len(j.updates))
	copy(result, j.updates)
	return result
}

// Planned returns a copy of the updates a dry run skipped in order.
func (j *Journal) Planned() []domain.FieldUpdateRequest {
	result := make([]domain.FieldUpdateRequest, len(j.planned))
	copy(result, j.planned)
	return result
}

// Outcome returns the run outcome and, for skipped runs, why.
// Both are empty while the run is in progress or after it failed.
func (j *Journal) Outcome() (outcome string, reason string) {
	return j.outcome, j.reason
}

// Summary is a flat view of the journal for logs and step outputs.
type Summary struct {
	Outcome string
	Reason  string
	Issues  int
	Updated int
	Planned int
}

// Summary returns the counts recorded so far.
func (j *Journal) Summary() Summary {
	return Summary{
		Outcome: j.outcome,
		Reason:  j.reason,
		Issues:  len(j.issues),
		Updated: len(j.updates),
		Planned: len(j.planned),
	}
}

