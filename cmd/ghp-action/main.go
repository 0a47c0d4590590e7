package main

import (
	"fmt"
	"os"

	"github.com/h0rv/ghp-action/internal/auth"
	"github.com/h0rv/ghp-action/internal/config"
	"github.com/h0rv/ghp-action/internal/gh"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the configuration, logger and runner handle shared by every
// command.
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
	gha *githubactions.Action
}

func main() {
	a := &app{cfg: config.Load(), gha: githubactions.New()}

	if err := a.rootCmd().Execute(); err != nil {
		a.fail(err)
		os.Exit(1)
	}
}

// fail reports err to the log, the runner and stderr.
func (a *app) fail(err error) {
	if a.log != nil {
		a.log.Errorw("Run failed", "error", err)
	}
	if a.cfg.Actions {
		// Shows up as an annotation on the job.
		a.gha.Errorf("%s", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghp-action",
		Short: "Move issues closed by a merged pull request to a project status",
		Long: `ghp-action runs on pull_request events. When the pull request was merged it
looks up the open pull requests targeting the same base branch, collects the
issues they close and sets the configured single-select field (usually
Status) on every GitHub Projects item of those issues.

Authentication:
  1. The github_token input or --token
  2. Environment variable: GITHUB_TOKEN
  3. GitHub CLI: 'gh auth login' (local runs)

Use 'ghp-action fields --project N' to find the field and option IDs.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runMerge,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfg.Owner, config.Owner, a.cfg.Owner, "Repository owner (organization or user login)")
	flags.StringVar(&a.cfg.Repo, config.Repo, a.cfg.Repo, "Repository name")
	flags.StringVar(&a.cfg.FieldID, config.FieldID, a.cfg.FieldID, "Node ID of the single-select project field to set")
	flags.StringVar(&a.cfg.OptionID, config.OptionID, a.cfg.OptionID, "Node ID of the option to set the field to")
	flags.StringVar(&a.cfg.Token, "token", a.cfg.Token, "GitHub token (defaults to GITHUB_TOKEN, then gh CLI)")
	flags.StringVar(&a.cfg.Endpoint, "endpoint", a.cfg.Endpoint, "GraphQL endpoint (defaults to "+gh.DefaultEndpoint+")")
	flags.BoolVar(&a.cfg.DryRun, "dry-run", a.cfg.DryRun, "Look up project items but do not update them")
	flags.BoolVar(&a.cfg.Debug, "debug", a.cfg.Debug, "Log GraphQL requests and responses")

	rootCmd.Flags().StringVar(&a.cfg.Event.Name, "event-name", a.cfg.Event.Name, "Triggering event name (defaults to GITHUB_EVENT_NAME)")
	rootCmd.Flags().StringVar(&a.cfg.Event.Path, "event-path", a.cfg.Event.Path, "Path to the event payload (defaults to GITHUB_EVENT_PATH)")

	rootCmd.AddCommand(a.backfillCmd(), a.fieldsCmd(), a.classicCmd())

	return rootCmd
}

// setup builds the logger once flags are parsed.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.log != nil {
		return nil
	}

	log, err := newLogger(a.cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = log
	return nil
}

// client authenticates and creates the GitHub client.
func (a *app) client() (*gh.Client, error) {
	token, err := auth.GetToken(a.cfg.Token)
	if err != nil {
		return nil, err
	}
	return gh.New(token, gh.WithEndpoint(a.cfg.Endpoint), gh.WithLogger(a.log)), nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = true
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
