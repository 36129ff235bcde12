package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/issuegate/gh-issue-gate/internal/config"
	"github.com/issuegate/gh-issue-gate/internal/github"
	"github.com/issuegate/gh-issue-gate/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Gate.Source = config.SourceCommits
	cfg.Gate.SkipLabel = "skip-issue"
	cfg.Gate.CheckName = "Check Commit Messages"
	cfg.Gate.AppSlug = "github-actions"
	cfg.Gate.NeutralizeLatestSuite = true
	cfg.Gate.PostComment = true
	return cfg
}

func testPR() models.PullRequestContext {
	return models.PullRequestContext{
		Owner:   "owner",
		Repo:    "repo",
		Number:  7,
		Title:   "Add gate",
		Body:    "",
		HeadSHA: "abc123",
	}
}

func TestGateService_Evaluate(t *testing.T) {
	tests := []struct {
		name                string
		source              string
		labels              []models.Label
		title               string
		body                string
		commits             []models.Commit
		expectedOutcome     Outcome
		expectedRefs        models.ReferenceSet
		expectedUnrefCount  int
		expectCommitsCalled bool
	}{
		{
			name:                "skip label short-circuits before scanning",
			source:              config.SourceCommits,
			labels:              []models.Label{{Name: "bug"}, {Name: "skip-issue"}},
			commits:             github.CreateTestCommits("no refs at all"),
			expectedOutcome:     OutcomeSkipped,
			expectCommitsCalled: false,
		},
		{
			name:                "commits mode with no references",
			source:              config.SourceCommits,
			commits:             github.CreateTestCommits("tidy imports", "fix typo"),
			expectedOutcome:     OutcomeMissingReference,
			expectedUnrefCount:  2,
			expectCommitsCalled: true,
		},
		{
			name:   "commits mode dedups across messages in first-occurrence order",
			source: config.SourceCommits,
			commits: github.CreateTestCommits(
				"Fixes #12 and #7, see #12",
				"tidy imports",
				"Refs #7 and #9",
			),
			expectedOutcome:     OutcomeSatisfied,
			expectedRefs:        models.ReferenceSet{"#12", "#7", "#9"},
			expectedUnrefCount:  1,
			expectCommitsCalled: true,
		},
		{
			name:                "pull request mode scans title and body",
			source:              config.SourcePullRequest,
			title:               "Fix crash (#31)",
			body:                "See also #31 and #8",
			expectedOutcome:     OutcomeSatisfied,
			expectedRefs:        models.ReferenceSet{"#31", "#8"},
			expectCommitsCalled: false,
		},
		{
			name:                "pull request mode with empty title and body",
			source:              config.SourcePullRequest,
			expectedOutcome:     OutcomeMissingReference,
			expectCommitsCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &github.MockClient{
				Labels:  tt.labels,
				Commits: tt.commits,
			}
			cfg := testConfig()
			cfg.Gate.Source = tt.source

			pr := testPR()
			pr.Title = tt.title
			pr.Body = tt.body

			result, err := NewGateService(client, cfg).Evaluate(pr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Outcome != tt.expectedOutcome {
				t.Errorf("outcome = %v, want %v", result.Outcome, tt.expectedOutcome)
			}
			if tt.expectedRefs != nil && !reflect.DeepEqual(result.References, tt.expectedRefs) {
				t.Errorf("references = %v, want %v", result.References, tt.expectedRefs)
			}
			if len(result.UnreferencedCommits) != tt.expectedUnrefCount {
				t.Errorf("unreferenced commits = %d, want %d",
					len(result.UnreferencedCommits), tt.expectedUnrefCount)
			}
			if client.ListCommitsCalled != tt.expectCommitsCalled {
				t.Errorf("ListCommitsCalled = %v, want %v",
					client.ListCommitsCalled, tt.expectCommitsCalled)
			}
		})
	}
}

func TestGateService_Evaluate_LabelFetchFails(t *testing.T) {
	client := &github.MockClient{
		LabelsError: github.NewAPIError("boom"),
	}
	_, err := NewGateService(client, testConfig()).Evaluate(testPR())
	if err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestGateService_Evaluate_CommitFetchFails(t *testing.T) {
	client := &github.MockClient{
		CommitsError: github.NewAPIError("boom"),
	}
	_, err := NewGateService(client, testConfig()).Evaluate(testPR())
	if err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestGateService_Run_SatisfiedPostsCommentLast(t *testing.T) {
	client := &github.MockClient{
		PullRequest: testPR(),
		Commits:     github.CreateTestCommits("Closes #5"),
	}

	result, err := NewGateService(client, testConfig()).Run("owner", "repo", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != OutcomeSatisfied {
		t.Errorf("outcome = %v, want %v", result.Outcome, OutcomeSatisfied)
	}
	if !client.ListCheckSuitesCalled {
		t.Error("neutralization did not run before evaluation")
	}
	if !client.CreateIssueCommentCalled {
		t.Error("success comment was not posted")
	}
	if client.LastCommentBody != result.Comment {
		t.Errorf("posted body %q differs from composed comment %q",
			client.LastCommentBody, result.Comment)
	}
}

func TestGateService_Run_MissingReferenceDoesNotComment(t *testing.T) {
	client := &github.MockClient{
		PullRequest: testPR(),
		Commits:     github.CreateTestCommits("no refs"),
	}

	result, err := NewGateService(client, testConfig()).Run("owner", "repo", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeMissingReference {
		t.Errorf("outcome = %v, want %v", result.Outcome, OutcomeMissingReference)
	}
	if client.CreateIssueCommentCalled {
		t.Error("comment must not be posted on the missing-reference path")
	}
}

func TestGateService_Run_PostCommentDisabled(t *testing.T) {
	client := &github.MockClient{
		PullRequest: testPR(),
		Commits:     github.CreateTestCommits("Closes #5"),
	}
	cfg := testConfig()
	cfg.Gate.PostComment = false

	result, err := NewGateService(client, cfg).Run("owner", "repo", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSatisfied {
		t.Errorf("outcome = %v, want %v", result.Outcome, OutcomeSatisfied)
	}
	if client.CreateIssueCommentCalled {
		t.Error("comment posted despite post_comment = false")
	}
}

func TestGateService_Run_CommentFailureFailsRun(t *testing.T) {
	client := &github.MockClient{
		PullRequest:        testPR(),
		Commits:            github.CreateTestCommits("Closes #5"),
		CreateCommentError: github.NewAPIError("503"),
	}

	_, err := NewGateService(client, testConfig()).Run("owner", "repo", 7)
	if err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestGateService_Run_IncompleteContextIsConfigurationError(t *testing.T) {
	pr := testPR()
	pr.HeadSHA = ""
	client := &github.MockClient{PullRequest: pr}

	_, err := NewGateService(client, testConfig()).Run("owner", "repo", 7)
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("error %v should be a configuration error", err)
	}
	if client.ListCheckSuitesCalled || client.CreateIssueCommentCalled {
		t.Error("no mutating or neutralizing call may happen on an incomplete context")
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeSkipped.String() != "skipped" ||
		OutcomeMissingReference.String() != "missing_reference" ||
		OutcomeSatisfied.String() != "satisfied" {
		t.Error("unexpected outcome string rendering")
	}
}
