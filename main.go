package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/issuegate/gh-issue-gate/internal/config"
	"github.com/issuegate/gh-issue-gate/internal/github"
	"github.com/issuegate/gh-issue-gate/internal/service"
	"github.com/issuegate/gh-issue-gate/internal/ui"
)

// version is overridden at build time via -ldflags.
var version = "dev"

type options struct {
	configPath string
	repoSlug   string
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
}

// resolveRepo returns owner and name from --repo, falling back to the
// repository of the current directory.
func resolveRepo(slug string) (string, string, error) {
	if slug != "" {
		parts := strings.Split(slug, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("invalid repository %q, want owner/name", slug)
		}
		return parts[0], parts[1], nil
	}

	repo, err := repository.Current()
	if err != nil {
		return "", "", fmt.Errorf("failed to get current repository: %w", err)
	}
	return repo.Owner, repo.Name, nil
}

// resolvePRNumber parses the positional argument, or prompts over the open
// PRs when none was given.
func resolvePRNumber(args []string, client github.GitHubClient, prompter ui.Prompter, owner, name string) (int, error) {
	if len(args) >= 1 {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid PR number: %w", err)
		}
		if prNumber <= 0 {
			return 0, fmt.Errorf("PR number must be positive")
		}
		return prNumber, nil
	}

	prs, err := client.ListOpenPullRequests(owner, name)
	if err != nil {
		return 0, fmt.Errorf("failed to list open pull requests: %w", err)
	}
	return prompter.SelectPullRequest(prs)
}

func setup(opts *options) (*config.Config, *github.Client, string, string, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, "", "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, "", "", err
	}
	setupLogging(cfg.Log.Level)

	owner, name, err := resolveRepo(opts.repoSlug)
	if err != nil {
		return nil, nil, "", "", err
	}

	client, err := github.NewClient()
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return cfg, client, owner, name, nil
}

func runCheck(opts *options, args []string) error {
	cfg, client, owner, name, err := setup(opts)
	if err != nil {
		return err
	}

	prNumber, err := resolvePRNumber(args, client, &ui.DefaultPrompter{}, owner, name)
	if err != nil {
		return err
	}

	gate := service.NewGateService(client, cfg)
	result, err := gate.Run(owner, name, prNumber)
	if err != nil {
		return err
	}

	if table := ui.FormatUnreferencedCommits(result.UnreferencedCommits); table != "" {
		fmt.Fprint(os.Stderr, table)
	}

	switch result.Outcome {
	case service.OutcomeSkipped:
		fmt.Printf("Validation skipped: #%d carries the %q label\n", prNumber, cfg.Gate.SkipLabel)
		return nil
	case service.OutcomeSatisfied:
		fmt.Println(result.Comment)
		return nil
	default:
		source := "the commit messages"
		if cfg.Gate.Source == config.SourcePullRequest {
			source = "the title or description"
		}
		return fmt.Errorf("no issue reference found in %s of #%d; reference a tracked issue (e.g. #123) or add the %q label",
			source, prNumber, cfg.Gate.SkipLabel)
	}
}

func runNeutralize(opts *options, args []string) error {
	cfg, client, owner, name, err := setup(opts)
	if err != nil {
		return err
	}

	prNumber, err := resolvePRNumber(args, client, &ui.DefaultPrompter{}, owner, name)
	if err != nil {
		return err
	}

	pr, err := client.GetPullRequest(owner, name, prNumber)
	if err != nil {
		return fmt.Errorf("failed to load pull request context: %w", err)
	}

	gate := service.NewGateService(client, cfg)
	if err := gate.NeutralizeStaleRuns(pr); err != nil {
		return err
	}

	fmt.Printf("Neutralized stale %q runs on %s\n", cfg.Gate.CheckName, pr.HeadSHA)
	return nil
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:          "issue-gate",
		Short:        "Require pull requests to reference a tracked issue",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&opts.repoSlug, "repo", "", "target repository as owner/name (defaults to the current one)")

	root.AddCommand(&cobra.Command{
		Use:   "check [pr-number]",
		Short: "Neutralize stale runs, then enforce the issue-reference policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "neutralize [pr-number]",
		Short: "Only neutralize stale completed runs of this check",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNeutralize(opts, args)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
