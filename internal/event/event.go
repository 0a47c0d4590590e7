// Package event decodes the webhook payload that triggered the workflow run.
package event

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/go-github/v72/github"
)

// Event names that carry a pull request payload.
const (
	PullRequest       = "pull_request"
	PullRequestTarget = "pull_request_target"
)

// ErrNoPayload is returned when a pull request event has no payload file.
var ErrNoPayload = errors.New("event payload path not set")

// Trigger is the event that started the run.
type Trigger struct {
	Name        string
	PullRequest *PullRequestInfo // nil unless Name is a pull request event
}

// PullRequestInfo is the part of a pull request payload the workflow reads.
type PullRequestInfo struct {
	Action  string
	Number  int
	BaseRef string
	HeadRef string
	Merged  bool
}

// IsPullRequest reports whether the trigger is a pull request event.
func (t *Trigger) IsPullRequest() bool {
	return t.Name == PullRequest || t.Name == PullRequestTarget
}

// Load reads the trigger from the payload file at path. Events other than
// pull requests are returned without reading the payload.
func Load(name, path string) (*Trigger, error) {
	trigger := &Trigger{Name: name}
	if !trigger.IsPullRequest() {
		return trigger, nil
	}
	if path == "" {
		return nil, ErrNoPayload
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	return Parse(name, payload)
}

// Parse decodes a webhook payload for the named event.
func Parse(name string, payload []byte) (*Trigger, error) {
	trigger := &Trigger{Name: name}
	if !trigger.IsPullRequest() {
		return trigger, nil
	}

	// pull_request_target delivers the same payload as pull_request.
	parsed, err := github.ParseWebHook(PullRequest, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s payload: %w", name, err)
	}

	ev, ok := parsed.(*github.PullRequestEvent)
	if !ok || ev.PullRequest == nil {
		return nil, fmt.Errorf("%s payload has no pull_request", name)
	}

	pr := ev.GetPullRequest()
	trigger.PullRequest = &PullRequestInfo{
		Action:  ev.GetAction(),
		Number:  pr.GetNumber(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		Merged:  pr.GetMerged(),
	}

	return trigger, nil
}
