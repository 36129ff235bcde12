package github

import (
	"github.com/issuegate/gh-issue-gate/internal/models"
)

// GitHubClient defines the interface for GitHub operations the gate needs
type GitHubClient interface {
	GetPullRequest(owner, repo string, number int) (models.PullRequestContext, error)
	ListOpenPullRequests(owner, repo string) ([]models.PullRequestInfo, error)
	ListLabels(owner, repo string, number int) ([]models.Label, error)
	ListCommits(owner, repo string, number int) ([]models.Commit, error)
	ListCheckSuites(owner, repo, ref string) ([]models.CheckSuite, error)
	ListCheckRuns(owner, repo string, suiteID int64) ([]models.CheckRun, error)
	UpdateCheckRunConclusion(owner, repo string, runID int64, conclusion string) error
	CreateIssueComment(owner, repo string, number int, body string) error
}

// Ensure Client implements GitHubClient interface
var _ GitHubClient = (*Client)(nil)
