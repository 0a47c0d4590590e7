// Package auth resolves the GitHub token the action authenticates with.
// Providers are tried in order: the action's github_token input, the
// GITHUB_TOKEN environment variable, then the GitHub CLI for local runs.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TokenProvider defines the interface for obtaining a GitHub authentication token.
type TokenProvider interface {
	GetToken() (string, error)
}

// InputProvider returns a token passed in explicitly (action input or flag).
type InputProvider struct {
	Token string
}

// GetToken returns the configured token, or an error if it is empty.
func (p *InputProvider) GetToken() (string, error) {
	token := strings.TrimSpace(p.Token)
	if token == "" {
		return "", errors.New("github_token input not set")
	}
	return token, nil
}

// EnvProvider obtains tokens from the GITHUB_TOKEN environment variable.
type EnvProvider struct{}

// GetToken reads the GITHUB_TOKEN environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", errors.New("GITHUB_TOKEN environment variable not set or empty")
	}
	return token, nil
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
type GhCliProvider struct{}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}

	return token, nil
}

// Chain tries each provider in order and returns the first token found.
func Chain(providers ...TokenProvider) (string, error) {
	if len(providers) == 0 {
		return "", errors.New("no token providers configured")
	}

	errs := make([]string, 0, len(providers))
	for _, p := range providers {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err.Error())
	}

	return "", fmt.Errorf(
		"failed to obtain GitHub token (%s).\n"+
			"Please either:\n"+
			"  1. Pass the github_token input (e.g. ${{ secrets.GITHUB_TOKEN }}), or\n"+
			"  2. Set the GITHUB_TOKEN environment variable, or\n"+
			"  3. Run 'gh auth login' when running locally",
		strings.Join(errs, "; "),
	)
}

// GetToken resolves a token from input, GITHUB_TOKEN, then the gh CLI.
func GetToken(input string) (string, error) {
	return Chain(&InputProvider{Token: input}, &EnvProvider{}, &GhCliProvider{})
}
