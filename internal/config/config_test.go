package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceCommits, cfg.Gate.Source)
	assert.Equal(t, "skip-issue", cfg.Gate.SkipLabel)
	assert.Equal(t, "Check Commit Messages", cfg.Gate.CheckName)
	assert.Equal(t, "github-actions", cfg.Gate.AppSlug)
	assert.True(t, cfg.Gate.NeutralizeLatestSuite)
	assert.True(t, cfg.Gate.PostComment)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue-gate.toml")
	content := `
[gate]
source = "pull_request"
skip_label = "no-issue-needed"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourcePullRequest, cfg.Gate.Source)
	assert.Equal(t, "no-issue-needed", cfg.Gate.SkipLabel)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "Check Commit Messages", cfg.Gate.CheckName)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ISSUE_GATE_GATE_SOURCE", "pull_request")
	t.Setenv("ISSUE_GATE_GATE_SKIP_LABEL", "override-label")
	t.Setenv("ISSUE_GATE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourcePullRequest, cfg.Gate.Source)
	assert.Equal(t, "override-label", cfg.Gate.SkipLabel)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "pull_request source is valid",
			mutate:  func(c *Config) { c.Gate.Source = SourcePullRequest },
			wantErr: false,
		},
		{
			name:    "unknown source",
			mutate:  func(c *Config) { c.Gate.Source = "title" },
			wantErr: true,
		},
		{
			name:    "empty skip label",
			mutate:  func(c *Config) { c.Gate.SkipLabel = "" },
			wantErr: true,
		},
		{
			name:    "empty check name",
			mutate:  func(c *Config) { c.Gate.CheckName = "" },
			wantErr: true,
		},
		{
			name:    "empty app slug",
			mutate:  func(c *Config) { c.Gate.AppSlug = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrConfiguration),
					"validation failures must be configuration errors, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
