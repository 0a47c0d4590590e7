// Package config reads the action's inputs and runner environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-githubactions"
)

// Setting names, also used as flag names by the command line.
const (
	Owner    = "owner"
	Repo     = "repo"
	FieldID  = "field-id"
	OptionID = "option-id"
)

type Config struct {
	Owner    string
	Repo     string
	FieldID  string
	OptionID string
	Token    string
	Endpoint string
	DryRun   bool
	Debug    bool
	Actions  bool // Running inside a GitHub Actions job

	Event  EventConfig
	Output string // Path of the step output file, empty outside Actions
}

type EventConfig struct {
	Name string
	Path string
}

// ConfigError reports a missing or malformed setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// Load reads a .env file if present, then the settings from the process
// environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromAction(githubactions.New())
}

// FromAction reads the action inputs with plain environment variables as
// fallback. Owner and repo default to the repository the workflow runs in.
func FromAction(action *githubactions.Action) *Config {
	repoOwner, repoName := splitRepository(action.Getenv("GITHUB_REPOSITORY"))

	return &Config{
		Owner:    firstNonEmpty(action.GetInput("owner"), action.Getenv("OWNER"), repoOwner),
		Repo:     firstNonEmpty(action.GetInput("repo"), action.Getenv("REPO"), repoName),
		FieldID:  firstNonEmpty(action.GetInput("fieldID"), action.Getenv("FIELD_ID")),
		OptionID: firstNonEmpty(action.GetInput("optionID"), action.Getenv("OPTION_ID")),
		Token:    action.GetInput("github_token"),
		Endpoint: action.Getenv("GITHUB_GRAPHQL_URL"),
		DryRun:   getBool(firstNonEmpty(action.GetInput("dry_run"), action.Getenv("DRY_RUN"))),
		Debug:    getBool(action.Getenv("RUNNER_DEBUG")),
		Actions:  getBool(action.Getenv("GITHUB_ACTIONS")),
		Event: EventConfig{
			Name: action.Getenv("GITHUB_EVENT_NAME"),
			Path: action.Getenv("GITHUB_EVENT_PATH"),
		},
		Output: action.Getenv("GITHUB_OUTPUT"),
	}
}

// Require checks that the named settings are non-empty.
func (c *Config) Require(names ...string) error {
	var errs []error
	for _, name := range names {
		value, known := c.lookup(name)
		if !known {
			errs = append(errs, &ConfigError{Field: name, Message: "unknown setting"})
			continue
		}
		if strings.TrimSpace(value) == "" {
			errs = append(errs, &ConfigError{Field: name, Message: "is required"})
		}
	}
	return errors.Join(errs...)
}

// Validate checks the settings the status workflow needs.
func (c *Config) Validate() error {
	return c.Require(Owner, Repo, FieldID, OptionID)
}

func (c *Config) lookup(name string) (string, bool) {
	switch name {
	case Owner:
		return c.Owner, true
	case Repo:
		return c.Repo, true
	case FieldID:
		return c.FieldID, true
	case OptionID:
		return c.OptionID, true
	}
	return "", false
}

func splitRepository(full string) (owner, repo string) {
	owner, repo, found := strings.Cut(full, "/")
	if !found {
		return "", ""
	}
	return owner, repo
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return b
}
