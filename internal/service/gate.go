// Package service implements the pull-request gate: stale check-run
// neutralization, the skip/violation/satisfied decision, and the success
// comment.
package service

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/issuegate/gh-issue-gate/internal/config"
	"github.com/issuegate/gh-issue-gate/internal/github"
	"github.com/issuegate/gh-issue-gate/internal/models"
	"github.com/issuegate/gh-issue-gate/internal/scan"
)

// Outcome is the terminal state of one gate run. A missing reference is the
// expected negative outcome of the policy, so it lives here and not in the
// error channel; configuration and API failures are returned as errors.
type Outcome int

const (
	// OutcomeSkipped means the PR carries the skip label; no evaluation ran.
	OutcomeSkipped Outcome = iota
	// OutcomeMissingReference means no issue reference was found anywhere.
	OutcomeMissingReference
	// OutcomeSatisfied means at least one issue reference was found.
	OutcomeSatisfied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMissingReference:
		return "missing_reference"
	case OutcomeSatisfied:
		return "satisfied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// GateResult carries the outcome of one run plus operator diagnostics.
type GateResult struct {
	Outcome    Outcome
	References models.ReferenceSet
	// UnreferencedCommits lists commits that individually lack a reference
	// when scanning in commits mode. Populated regardless of outcome; the
	// gate decision stays aggregated across the whole PR.
	UnreferencedCommits []models.Commit
	// Comment is the composed success message, set only when satisfied.
	Comment string
}

// GateService contains the gate's business logic
type GateService struct {
	client github.GitHubClient
	cfg    *config.Config
}

// NewGateService creates a new service instance
func NewGateService(client github.GitHubClient, cfg *config.Config) *GateService {
	return &GateService{
		client: client,
		cfg:    cfg,
	}
}

// Run executes one full gate pass for the given pull request: neutralize
// stale runs first, then decide skip vs. evaluate, then on success compose
// and post the comment. Posting is the last step of a successful run so a
// comment is never written from a partial reference set.
func (s *GateService) Run(owner, repo string, prNumber int) (*GateResult, error) {
	pr, err := s.client.GetPullRequest(owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load pull request context: %w", err)
	}
	if err := pr.Validate(); err != nil {
		return nil, err
	}

	if err := s.NeutralizeStaleRuns(pr); err != nil {
		return nil, err
	}

	result, err := s.Evaluate(pr)
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeSatisfied && s.cfg.Gate.PostComment {
		if err := s.client.CreateIssueComment(pr.Owner, pr.Repo, pr.Number, result.Comment); err != nil {
			return nil, fmt.Errorf("failed to post success comment: %w", err)
		}
	}

	return result, nil
}

// Evaluate runs the policy decision without side effects other than reads:
// label skip first, then reference collection from the configured source.
func (s *GateService) Evaluate(pr models.PullRequestContext) (*GateResult, error) {
	// The event payload's label list may be stale by the time the gate
	// runs, so the current set is re-read.
	labels, err := s.client.ListLabels(pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch labels: %w", err)
	}
	pr.Labels = labels
	if pr.HasLabel(s.cfg.Gate.SkipLabel) {
		log.Info().
			Str("label", s.cfg.Gate.SkipLabel).
			Int("pr", pr.Number).
			Msg("skip label present, gate skipped")
		return &GateResult{Outcome: OutcomeSkipped}, nil
	}

	result := &GateResult{}
	switch s.cfg.Gate.Source {
	case config.SourcePullRequest:
		result.References = scan.Merge(scan.Scan(pr.Title), scan.Scan(pr.Body))
	case config.SourceCommits:
		commits, err := s.client.ListCommits(pr.Owner, pr.Repo, pr.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch commits: %w", err)
		}
		sets := make([][]models.IssueReference, len(commits))
		for i, commit := range commits {
			sets[i] = scan.Scan(commit.Message)
			if len(sets[i]) == 0 {
				result.UnreferencedCommits = append(result.UnreferencedCommits, commit)
			}
		}
		result.References = scan.Merge(sets...)
	default:
		return nil, fmt.Errorf("%w: unknown reference source %q",
			models.ErrConfiguration, s.cfg.Gate.Source)
	}

	for _, commit := range result.UnreferencedCommits {
		log.Warn().
			Str("sha", commit.SHA).
			Msg("commit does not reference an issue")
	}

	if result.References.IsEmpty() {
		result.Outcome = OutcomeMissingReference
		return result, nil
	}

	comment, err := ComposeComment(result.References)
	if err != nil {
		return nil, err
	}
	result.Outcome = OutcomeSatisfied
	result.Comment = comment

	log.Info().
		Int("pr", pr.Number).
		Int("references", len(result.References)).
		Msg("issue reference policy satisfied")
	return result, nil
}
