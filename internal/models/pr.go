package models

import "fmt"

// IssueReference is a "#<digits>" token found in free text. Equality and
// dedup are by the literal token; the integer value is never materialized
// since the gate does not look referenced issues up.
type IssueReference string

// ReferenceSet is a deduplicated, first-occurrence-ordered collection of
// issue references found across one or more texts of a single PR.
type ReferenceSet []IssueReference

// IsEmpty reports whether no references were found. A non-nil empty set and
// a nil set are both empty; aggregation dedups before this is asked.
func (s ReferenceSet) IsEmpty() bool {
	return len(s) == 0
}

// PullRequestContext holds the few PR fields the gate consumes, captured
// once per run and treated as immutable.
type PullRequestContext struct {
	Owner   string
	Repo    string
	Number  int
	Title   string
	Body    string
	HeadSHA string
	Labels  []Label
}

// Validate reports the first missing field required for any API call.
// Title and body may legitimately be empty; the rest may not.
func (c PullRequestContext) Validate() error {
	switch {
	case c.Owner == "":
		return fmt.Errorf("%w: missing repository owner", ErrConfiguration)
	case c.Repo == "":
		return fmt.Errorf("%w: missing repository name", ErrConfiguration)
	case c.Number <= 0:
		return fmt.Errorf("%w: missing pull request number", ErrConfiguration)
	case c.HeadSHA == "":
		return fmt.Errorf("%w: missing head commit SHA", ErrConfiguration)
	}
	return nil
}

// HasLabel reports whether the PR carries a label with the given name.
func (c PullRequestContext) HasLabel(name string) bool {
	for _, l := range c.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// PullRequestInfo represents PR metadata shown in the interactive picker.
type PullRequestInfo struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	User      string `json:"user"`
	State     string `json:"state"`
	Draft     bool   `json:"draft"`
	UpdatedAt string `json:"updated_at"`
	CreatedAt string `json:"created_at"`
}

// Label represents a GitHub label; the gate only tests membership by name.
type Label struct {
	Name string `json:"name"`
}

// Commit is one commit on a pull request.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// CheckSuite is a group of check runs produced by one automation trigger
// against one commit.
type CheckSuite struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	AppSlug string `json:"app_slug"`
}

// CheckRun is a single named check's result within a suite.
type CheckRun struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

// Check run status and conclusion values as exposed by the GitHub API.
const (
	StatusCompleted = "completed"

	ConclusionNeutral = "neutral"
	ConclusionSuccess = "success"
	ConclusionFailure = "failure"
)
