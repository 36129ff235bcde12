package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// NeutralizeStaleRuns downgrades the conclusion of every completed check run
// that shares this gate's check name on the PR's head commit, scoped to
// suites owned by the configured app. The host keeps a suite "in progress"
// while any run in it is non-terminal, so stale same-named completed runs
// must be rewritten to neutral instead of re-run, or an old failure would
// stay authoritative next to the fresh run.
//
// Per-run update failures are logged and skipped; the run-listing ceiling
// breach is fatal for the whole step. The operation is idempotent: updating
// an already-neutral run to neutral is a no-op in outcome.
func (s *GateService) NeutralizeStaleRuns(pr models.PullRequestContext) error {
	if err := pr.Validate(); err != nil {
		return err
	}

	suites, err := s.client.ListCheckSuites(pr.Owner, pr.Repo, pr.HeadSHA)
	if err != nil {
		return fmt.Errorf("failed to list check suites: %w", err)
	}

	owned := suites[:0:0]
	for _, suite := range suites {
		if suite.AppSlug == s.cfg.Gate.AppSlug {
			owned = append(owned, suite)
		}
	}

	if !s.cfg.Gate.NeutralizeLatestSuite && len(owned) > 0 {
		// The newest suite is presumed to belong to the current
		// invocation; leave its runs alone when configured to.
		latest := 0
		for i, suite := range owned {
			if suite.ID > owned[latest].ID {
				latest = i
			}
		}
		owned = append(owned[:latest], owned[latest+1:]...)
	}

	for _, suite := range owned {
		runs, err := s.client.ListCheckRuns(pr.Owner, pr.Repo, suite.ID)
		if err != nil {
			if errors.Is(err, models.ErrConfiguration) {
				return fmt.Errorf("cannot neutralize suite %d: %w", suite.ID, err)
			}
			log.Warn().
				Err(err).
				Int64("suite", suite.ID).
				Msg("failed to list check runs, skipping suite")
			continue
		}

		for _, run := range runs {
			if run.Name != s.cfg.Gate.CheckName || run.Status != models.StatusCompleted {
				continue
			}
			if err := s.client.UpdateCheckRunConclusion(pr.Owner, pr.Repo, run.ID, models.ConclusionNeutral); err != nil {
				log.Warn().
					Err(err).
					Int64("check_run", run.ID).
					Msg("failed to neutralize check run, skipping")
				continue
			}
			log.Info().
				Int64("check_run", run.ID).
				Str("previous_conclusion", run.Conclusion).
				Msg("neutralized stale check run")
		}
	}

	return nil
}
