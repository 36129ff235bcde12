// Package config loads gate settings from defaults, an optional TOML file,
// and ISSUE_GATE_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// Source modes for reference discovery.
const (
	// SourcePullRequest scans the PR title and body.
	SourcePullRequest = "pull_request"
	// SourceCommits scans every commit message on the PR.
	SourceCommits = "commits"
)

// Config represents the gate configuration.
type Config struct {
	Gate struct {
		// Source selects where issue references are looked for:
		// "pull_request" (title+body) or "commits" (every commit message).
		Source string `koanf:"source"`
		// SkipLabel exempts a PR from the policy when present.
		SkipLabel string `koanf:"skip_label"`
		// CheckName is the check-run name this gate publishes under and
		// the name whose stale completed runs get neutralized.
		CheckName string `koanf:"check_name"`
		// AppSlug scopes neutralization to suites owned by this app.
		AppSlug string `koanf:"app_slug"`
		// NeutralizeLatestSuite also neutralizes completed same-named runs
		// in the newest suite, which is presumed to belong to the current
		// invocation (relevant on repeated label-change triggers).
		NeutralizeLatestSuite bool `koanf:"neutralize_latest_suite"`
		// PostComment controls whether a success comment is posted.
		PostComment bool `koanf:"post_comment"`
	} `koanf:"gate"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// Load reads the configuration. configPath may be empty, in which case the
// default locations are probed and silently skipped when absent.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"gate.source":                  SourceCommits,
		"gate.skip_label":              "skip-issue",
		"gate.check_name":              "Check Commit Messages",
		"gate.app_slug":                "github-actions",
		"gate.neutralize_latest_suite": true,
		"gate.post_comment":            true,
		"log.level":                    "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./issue-gate.toml", "$HOME/.issue-gate.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	if err := k.Load(env.Provider("ISSUE_GATE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ISSUE_GATE_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate checks the loaded configuration for values the gate cannot run
// without.
func Validate(config *Config) error {
	switch config.Gate.Source {
	case SourcePullRequest, SourceCommits:
	default:
		return fmt.Errorf("%w: unknown reference source %q (want %q or %q)",
			models.ErrConfiguration, config.Gate.Source, SourcePullRequest, SourceCommits)
	}

	if config.Gate.SkipLabel == "" {
		return fmt.Errorf("%w: skip label must not be empty", models.ErrConfiguration)
	}
	if config.Gate.CheckName == "" {
		return fmt.Errorf("%w: check name must not be empty", models.ErrConfiguration)
	}
	if config.Gate.AppSlug == "" {
		return fmt.Errorf("%w: app slug must not be empty", models.ErrConfiguration)
	}

	return nil
}
