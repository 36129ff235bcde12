package ui

import "github.com/issuegate/gh-issue-gate/internal/models"

// Prompter defines interface for user interaction
type Prompter interface {
	SelectPullRequest(prs []models.PullRequestInfo) (int, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// SelectPullRequest prompts user to select a PR
func (p *DefaultPrompter) SelectPullRequest(prs []models.PullRequestInfo) (int, error) {
	return SelectPullRequest(prs)
}

// MockPrompter for testing
type MockPrompter struct {
	SelectedPRNumber int
	PRSelectionError error

	// Call tracking
	SelectPullRequestCalled bool
}

// SelectPullRequest mocks PR selection
func (m *MockPrompter) SelectPullRequest(prs []models.PullRequestInfo) (int, error) {
	m.SelectPullRequestCalled = true
	return m.SelectedPRNumber, m.PRSelectionError
}
