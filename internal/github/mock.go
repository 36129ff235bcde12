package github

import (
	"fmt"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	// Control test behavior
	PullRequest        models.PullRequestContext
	PullRequestError   error
	OpenPRs            []models.PullRequestInfo
	OpenPRsError       error
	Labels             []models.Label
	LabelsError        error
	Commits            []models.Commit
	CommitsError       error
	CheckSuites        []models.CheckSuite
	CheckSuitesError   error
	CheckRunsBySuite   map[int64][]models.CheckRun
	CheckRunsError     error
	UpdateRunErrors    map[int64]error
	CreateCommentError error

	// Track method calls
	GetPullRequestCalled       bool
	ListOpenPullRequestsCalled bool
	ListLabelsCalled           bool
	ListCommitsCalled          bool
	ListCheckSuitesCalled      bool
	ListCheckRunsCalled        bool
	CreateIssueCommentCalled   bool

	// Store call arguments for verification
	LastOwner        string
	LastRepo         string
	LastPRNumber     int
	LastRef          string
	LastSuiteIDs     []int64
	LastCommentBody  string
	UpdatedRuns      []int64
	UpdatedTo        map[int64]string
}

// GetPullRequest mocks the GraphQL context query
func (m *MockClient) GetPullRequest(owner, repo string, number int) (models.PullRequestContext, error) {
	m.GetPullRequestCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastPRNumber = number
	return m.PullRequest, m.PullRequestError
}

// ListOpenPullRequests mocks the GraphQL search query
func (m *MockClient) ListOpenPullRequests(owner, repo string) ([]models.PullRequestInfo, error) {
	m.ListOpenPullRequestsCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	return m.OpenPRs, m.OpenPRsError
}

// ListLabels mocks the label listing call
func (m *MockClient) ListLabels(owner, repo string, number int) ([]models.Label, error) {
	m.ListLabelsCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastPRNumber = number
	return m.Labels, m.LabelsError
}

// ListCommits mocks the commit listing call
func (m *MockClient) ListCommits(owner, repo string, number int) ([]models.Commit, error) {
	m.ListCommitsCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastPRNumber = number
	return m.Commits, m.CommitsError
}

// ListCheckSuites mocks the suite listing call
func (m *MockClient) ListCheckSuites(owner, repo, ref string) ([]models.CheckSuite, error) {
	m.ListCheckSuitesCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastRef = ref
	return m.CheckSuites, m.CheckSuitesError
}

// ListCheckRuns mocks the run listing call
func (m *MockClient) ListCheckRuns(owner, repo string, suiteID int64) ([]models.CheckRun, error) {
	m.ListCheckRunsCalled = true
	m.LastSuiteIDs = append(m.LastSuiteIDs, suiteID)
	if m.CheckRunsError != nil {
		return nil, m.CheckRunsError
	}
	return m.CheckRunsBySuite[suiteID], nil
}

// UpdateCheckRunConclusion mocks the run update call
func (m *MockClient) UpdateCheckRunConclusion(owner, repo string, runID int64, conclusion string) error {
	if err := m.UpdateRunErrors[runID]; err != nil {
		return err
	}
	m.UpdatedRuns = append(m.UpdatedRuns, runID)
	if m.UpdatedTo == nil {
		m.UpdatedTo = make(map[int64]string)
	}
	m.UpdatedTo[runID] = conclusion
	return nil
}

// CreateIssueComment mocks the comment posting call
func (m *MockClient) CreateIssueComment(owner, repo string, number int, body string) error {
	m.CreateIssueCommentCalled = true
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastPRNumber = number
	m.LastCommentBody = body
	return m.CreateCommentError
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.GetPullRequestCalled = false
	m.ListOpenPullRequestsCalled = false
	m.ListLabelsCalled = false
	m.ListCommitsCalled = false
	m.ListCheckSuitesCalled = false
	m.ListCheckRunsCalled = false
	m.CreateIssueCommentCalled = false
	m.LastOwner = ""
	m.LastRepo = ""
	m.LastPRNumber = 0
	m.LastRef = ""
	m.LastSuiteIDs = nil
	m.LastCommentBody = ""
	m.UpdatedRuns = nil
	m.UpdatedTo = nil
}

// Helper functions for creating test data
func CreateTestCommits(messages ...string) []models.Commit {
	commits := make([]models.Commit, len(messages))
	for i, msg := range messages {
		commits[i] = models.Commit{
			SHA:     fmt.Sprintf("%040x", i+1),
			Message: msg,
		}
	}
	return commits
}

// Error helpers for testing error conditions
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}
