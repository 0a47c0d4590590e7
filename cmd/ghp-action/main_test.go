package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/h0rv/ghp-action/internal/config"
	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeGitHub answers GraphQL requests by matching a substring of the query.
type fakeGitHub struct {
	mu       sync.Mutex
	requests []graphqlRequest
	routes   map[string]string
}

func newFakeGitHub(t *testing.T, routes map[string]string) (*fakeGitHub, string) {
	t.Helper()

	f := &fakeGitHub{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		for needle, body := range f.routes {
			if strings.Contains(req.Query, needle) {
				fmt.Fprint(w, body)
				return
			}
		}
		fmt.Fprint(w, `{"data":{}}`)
	}))
	t.Cleanup(srv.Close)

	return f, srv.URL
}

func (f *fakeGitHub) calls(needle string) []graphqlRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []graphqlRequest
	for _, req := range f.requests {
		if strings.Contains(req.Query, needle) {
			out = append(out, req)
		}
	}
	return out
}

func (f *fakeGitHub) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const lastPullRequestsBody = `{"data":{"repository":{"pullRequests":{"edges":[
	{"node":{"id":"PR_1","baseRefName":"main","headRefName":"feature/login","number":41,"state":"OPEN",
		"closingIssuesReferences":{"edges":[{"node":{"id":"I_1","title":"Login broken","url":"https://github.com/acme/widgets/issues/1"}}]}},
	 "cursor":"Y3Vyc29yOjE="}
]}}}}`

const projectItemsBody = `{"data":{"node":{"projectItems":{"nodes":[{"id":"PVTI_1","project":{"id":"PVT_1"}}]}}}}`

const updateBody = `{"data":{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"PVTI_1"}}}}`

func mergeRoutes() map[string]string {
	return map[string]string{
		"pullRequests(last: 2":           lastPullRequestsBody,
		"projectItems(first: 10)":        projectItemsBody,
		"updateProjectV2ItemFieldValue(": updateBody,
	}
}

func writeEvent(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

// testApp wires the runner handle to cfg, so step outputs land in cfg.Output
// and workflow commands are discarded.
func testApp(cfg *config.Config) *app {
	gha := githubactions.New(
		githubactions.WithWriter(io.Discard),
		githubactions.WithGetenv(func(key string) string {
			if key == "GITHUB_OUTPUT" {
				return cfg.Output
			}
			return ""
		}),
	)
	return &app{cfg: cfg, log: zap.NewNop().Sugar(), gha: gha}
}

// readOutputs parses a step output file. Values may be written as
// name=value or as a name<<DELIMITER block.
func readOutputs(t *testing.T, path string) map[string]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	outputs := map[string]string{}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		if name, delim, ok := strings.Cut(lines[i], "<<"); ok {
			var value []string
			for i++; i < len(lines) && lines[i] != delim; i++ {
				value = append(value, lines[i])
			}
			outputs[name] = strings.Join(value, "\n")
			continue
		}
		if name, value, ok := strings.Cut(lines[i], "="); ok {
			outputs[name] = value
		}
	}
	return outputs
}

func actionConfig() *config.Config {
	return &config.Config{
		Owner:    "acme",
		Repo:     "widgets",
		FieldID:  "PVTSSF_status",
		OptionID: "opt_done",
	}
}

func execute(a *app, args ...string) (string, error) {
	cmd := a.rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_MergedPullRequestUpdatesItems(t *testing.T) {
	api, endpoint := newFakeGitHub(t, mergeRoutes())
	eventPath := writeEvent(t, `{"action":"closed","pull_request":{"number":42,"merged":true,"base":{"ref":"main"},"head":{"ref":"feature/login"}}}`)

	cfg := actionConfig()
	cfg.Output = filepath.Join(t.TempDir(), "output")
	a := testApp(cfg)

	_, err := execute(a, "--token", "ghp_test", "--endpoint", endpoint,
		"--event-name", "pull_request", "--event-path", eventPath)
	require.NoError(t, err)

	last := api.calls("pullRequests(last: 2")
	require.Len(t, last, 1)
	assert.Equal(t, "main", last[0].Variables["branch"])

	updates := api.calls("updateProjectV2ItemFieldValue(")
	require.Len(t, updates, 1)
	assert.Equal(t, "PVT_1", updates[0].Variables["projectId"])
	assert.Equal(t, "PVTI_1", updates[0].Variables["itemId"])
	assert.Equal(t, "PVTSSF_status", updates[0].Variables["fieldId"])
	assert.Equal(t, map[string]interface{}{"singleSelectOptionId": "opt_done"}, updates[0].Variables["value"])

	assert.Equal(t, map[string]string{
		"outcome":       "completed",
		"issues":        "1",
		"updated-items": "1",
		"planned-items": "0",
	}, readOutputs(t, cfg.Output))
}

func TestRoot_DryRunSendsNoMutation(t *testing.T) {
	api, endpoint := newFakeGitHub(t, mergeRoutes())
	eventPath := writeEvent(t, `{"action":"closed","pull_request":{"number":42,"merged":true,"base":{"ref":"main"}}}`)

	a := testApp(actionConfig())

	_, err := execute(a, "--token", "ghp_test", "--endpoint", endpoint, "--dry-run",
		"--event-name", "pull_request", "--event-path", eventPath)
	require.NoError(t, err)

	assert.Len(t, api.calls("projectItems(first: 10)"), 1)
	assert.Empty(t, api.calls("updateProjectV2ItemFieldValue("))
}

func TestRoot_NonPullRequestEventIsNoOp(t *testing.T) {
	api, endpoint := newFakeGitHub(t, mergeRoutes())

	// No owner or field settings: nothing is validated for other events.
	a := testApp(&config.Config{})

	_, err := execute(a, "--token", "ghp_test", "--endpoint", endpoint, "--event-name", "push")
	require.NoError(t, err)
	assert.Zero(t, api.total())
}

func TestRoot_UnmergedPullRequestSkipsBeforeSettingsAndToken(t *testing.T) {
	api, endpoint := newFakeGitHub(t, mergeRoutes())
	eventPath := writeEvent(t, `{"action":"closed","pull_request":{"number":7,"merged":false,"base":{"ref":"main"}}}`)

	// No field or option IDs and no way to obtain a token.
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("PATH", "")

	cfg := &config.Config{
		Owner:  "acme",
		Repo:   "widgets",
		Output: filepath.Join(t.TempDir(), "output"),
	}
	a := testApp(cfg)

	_, err := execute(a, "--endpoint", endpoint,
		"--event-name", "pull_request_target", "--event-path", eventPath)
	require.NoError(t, err)

	assert.Zero(t, api.total())
	outputs := readOutputs(t, cfg.Output)
	assert.Equal(t, "skipped", outputs["outcome"])
	assert.Equal(t, "0", outputs["updated-items"])
}

func TestRoot_MissingSettingsIsConfigError(t *testing.T) {
	api, endpoint := newFakeGitHub(t, mergeRoutes())
	eventPath := writeEvent(t, `{"action":"closed","pull_request":{"number":42,"merged":true,"base":{"ref":"main"}}}`)

	a := testApp(&config.Config{Owner: "acme", Repo: "widgets"})

	_, err := execute(a, "--token", "ghp_test", "--endpoint", endpoint,
		"--event-name", "pull_request", "--event-path", eventPath)
	require.Error(t, err)

	var cfgErr *config.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, api.total())
}

func TestRoot_APIErrorFailsRun(t *testing.T) {
	_, endpoint := newFakeGitHub(t, map[string]string{
		"pullRequests(last: 2": `{"data":null,"errors":[{"message":"Could not resolve to a Repository"}]}`,
	})
	eventPath := writeEvent(t, `{"action":"closed","pull_request":{"number":42,"merged":true,"base":{"ref":"main"}}}`)

	a := testApp(actionConfig())

	_, err := execute(a, "--token", "ghp_test", "--endpoint", endpoint,
		"--event-name", "pull_request", "--event-path", eventPath)
	assert.ErrorContains(t, err, "Could not resolve to a Repository")
}

func TestFields_PrintsStatusSettings(t *testing.T) {
	_, endpoint := newFakeGitHub(t, map[string]string{
		"organization(login: $login)": `{"data":{"organization":{"id":"O_1"},"user":null}}`,
		"projectsV2(first: $first)":   `{"data":{"node":{"projectsV2":{"nodes":[{"id":"PVT_1","number":3,"title":"Roadmap"}]}}}}`,
		"fields(first: 50)": `{"data":{"node":{"fields":{"nodes":[
			{"id":"F_title","name":"Title","dataType":"TITLE"},
			{"id":"F_status","name":"Status","dataType":"SINGLE_SELECT","options":[
				{"id":"opt_todo","name":"Todo","color":"GRAY"},
				{"id":"opt_done","name":"Done","color":"GREEN"}]}
		]}}}}`,
	})

	a := testApp(&config.Config{Owner: "acme"})

	out, err := execute(a, "fields", "--token", "ghp_test", "--endpoint", endpoint, "--project", "3", "--status", "done")
	require.NoError(t, err)

	assert.Contains(t, out, "Project: Roadmap (#3) ID=PVT_1")
	assert.Contains(t, out, "* Status (type=SINGLE_SELECT) ID=F_status")
	assert.Contains(t, out, "field-id: F_status\noption-id: opt_done\n")
}

func TestFields_UnknownProject(t *testing.T) {
	_, endpoint := newFakeGitHub(t, map[string]string{
		"organization(login: $login)": `{"data":{"organization":null,"user":{"id":"U_1"}}}`,
		"projectsV2(first: $first)":   `{"data":{"node":{"projectsV2":{"nodes":[]}}}}`,
	})

	a := testApp(&config.Config{Owner: "octocat"})

	_, err := execute(a, "fields", "--token", "ghp_test", "--endpoint", endpoint, "--project", "9")
	assert.ErrorContains(t, err, "project #9 not found")
}

func TestFields_RequiresOwner(t *testing.T) {
	a := testApp(&config.Config{})

	_, err := execute(a, "fields", "--token", "ghp_test", "--project", "1")

	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.Owner, cfgErr.Field)
}

func TestClassicAdd_DryRun(t *testing.T) {
	api, endpoint := newFakeGitHub(t, nil)

	a := testApp(&config.Config{})

	_, err := execute(a, "classic", "add", "--token", "ghp_test", "--endpoint", endpoint,
		"--dry-run", "--column", "PC_1", "--issue", "I_1")
	require.NoError(t, err)
	assert.Zero(t, api.total())
}

func TestClassicProjects_UnknownScope(t *testing.T) {
	a := testApp(&config.Config{Owner: "acme"})

	_, err := execute(a, "classic", "projects", "--token", "ghp_test", "--name", "Board", "--scope", "team")
	assert.ErrorContains(t, err, `unknown scope "team"`)
}

func TestFail_ErrorAnnotation(t *testing.T) {
	var out bytes.Buffer
	a := &app{
		cfg: &config.Config{Actions: true},
		log: zap.NewNop().Sugar(),
		gha: githubactions.New(githubactions.WithWriter(&out)),
	}

	a.fail(errors.New("100% done\nnext"))

	assert.Contains(t, out.String(), "::error::100%25 done%0Anext")
}

func TestFail_NoAnnotationOutsideActions(t *testing.T) {
	var out bytes.Buffer
	a := &app{
		cfg: &config.Config{},
		gha: githubactions.New(githubactions.WithWriter(&out)),
	}

	a.fail(errors.New("boom"))

	assert.Empty(t, out.String())
}
