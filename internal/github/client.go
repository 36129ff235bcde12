package github

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// perPage is the page size used for every paged REST listing.
const perPage = 100

// maxCheckRunsPerSuite is the hard ceiling on runs listed for one suite.
// A suite reporting more runs than this fails loudly instead of being
// processed partially, so a stale failing run can never stay authoritative
// because it fell off the end of the listing.
const maxCheckRunsPerSuite = 250

// Client wraps GitHub API clients
type Client struct {
	rest api.RESTClient
	gql  api.GraphQLClient
}

func NewClient() (*Client, error) {
	restClient, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.DefaultGraphQLClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		rest: *restClient,
		gql:  *gqlClient,
	}, nil
}

// apiErr tags a transport failure as a collaborator error while keeping the
// original chain intact.
func apiErr(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), models.ErrCollaborator, err)
}

// GetPullRequest fetches the fields the gate consumes in a single GraphQL
// round trip: title, body, head commit SHA and the current label set.
func (c *Client) GetPullRequest(owner, repo string, number int) (models.PullRequestContext, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				Number     int
				Title      string
				Body       string
				HeadRefOid string
				Labels     struct {
					Nodes []struct {
						Name string
					}
				} `graphql:"labels(first: 100)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(repo),
		"number": graphql.Int(number),
	}

	if err := c.gql.Query("PullRequestContext", &q, variables); err != nil {
		return models.PullRequestContext{}, apiErr(err, "failed to fetch pull request #%d", number)
	}

	pr := q.Repository.PullRequest
	ctx := models.PullRequestContext{
		Owner:   owner,
		Repo:    repo,
		Number:  pr.Number,
		Title:   pr.Title,
		Body:    pr.Body,
		HeadSHA: pr.HeadRefOid,
	}
	for _, node := range pr.Labels.Nodes {
		ctx.Labels = append(ctx.Labels, models.Label{Name: node.Name})
	}
	return ctx, nil
}

// ListOpenPullRequests fetches open pull requests for the interactive picker.
func (c *Client) ListOpenPullRequests(owner, repo string) ([]models.PullRequestInfo, error) {
	var q struct {
		Search struct {
			Nodes []struct {
				PullRequest struct {
					Number    int
					Title     string
					State     string
					IsDraft   bool
					UpdatedAt string
					CreatedAt string
					Author    struct {
						Login string
					}
				} `graphql:"... on PullRequest"`
			}
			PageInfo struct {
				HasNextPage bool
				EndCursor   string
			}
		} `graphql:"search(type: ISSUE, query: $query, first: $first, after: $endCursor)"`
	}

	variables := map[string]interface{}{
		"query":     graphql.String(fmt.Sprintf("repo:%s/%s is:pr state:open sort:created-desc", owner, repo)),
		"first":     graphql.Int(100),
		"endCursor": (*graphql.String)(nil),
	}

	if err := c.gql.Query("OpenPullRequests", &q, variables); err != nil {
		return nil, apiErr(err, "failed to fetch open pull requests")
	}

	prs := make([]models.PullRequestInfo, 0, len(q.Search.Nodes))
	for _, node := range q.Search.Nodes {
		pr := node.PullRequest
		prs = append(prs, models.PullRequestInfo{
			Number:    pr.Number,
			Title:     pr.Title,
			User:      pr.Author.Login,
			State:     pr.State,
			Draft:     pr.IsDraft,
			UpdatedAt: pr.UpdatedAt,
			CreatedAt: pr.CreatedAt,
		})
	}
	return prs, nil
}

// ListLabels fetches the PR's current label set.
func (c *Client) ListLabels(owner, repo string, number int) ([]models.Label, error) {
	var labels []models.Label
	for page := 1; ; page++ {
		path := fmt.Sprintf("repos/%s/%s/issues/%d/labels?per_page=%d&page=%d",
			owner, repo, number, perPage, page)
		var batch []models.Label
		if err := c.rest.Get(path, &batch); err != nil {
			return nil, apiErr(err, "failed to fetch labels for #%d", number)
		}
		labels = append(labels, batch...)
		if len(batch) < perPage {
			return labels, nil
		}
	}
}

// ListCommits fetches every commit on the PR in order, paging past the
// single-page limit so callers always see the full set.
func (c *Client) ListCommits(owner, repo string, number int) ([]models.Commit, error) {
	var commits []models.Commit
	for page := 1; ; page++ {
		path := fmt.Sprintf("repos/%s/%s/pulls/%d/commits?per_page=%d&page=%d",
			owner, repo, number, perPage, page)
		var batch []struct {
			SHA    string `json:"sha"`
			Commit struct {
				Message string `json:"message"`
			} `json:"commit"`
		}
		if err := c.rest.Get(path, &batch); err != nil {
			return nil, apiErr(err, "failed to fetch commits for #%d", number)
		}
		for _, item := range batch {
			commits = append(commits, models.Commit{SHA: item.SHA, Message: item.Commit.Message})
		}
		if len(batch) < perPage {
			return commits, nil
		}
	}
}

// ListCheckSuites fetches every check suite for the given commit ref.
func (c *Client) ListCheckSuites(owner, repo, ref string) ([]models.CheckSuite, error) {
	var suites []models.CheckSuite
	for page := 1; ; page++ {
		path := fmt.Sprintf("repos/%s/%s/commits/%s/check-suites?per_page=%d&page=%d",
			owner, repo, ref, perPage, page)
		var resp struct {
			TotalCount  int `json:"total_count"`
			CheckSuites []struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
				App    struct {
					Slug string `json:"slug"`
				} `json:"app"`
			} `json:"check_suites"`
		}
		if err := c.rest.Get(path, &resp); err != nil {
			return nil, apiErr(err, "failed to fetch check suites for %s", ref)
		}
		for _, s := range resp.CheckSuites {
			suites = append(suites, models.CheckSuite{ID: s.ID, Status: s.Status, AppSlug: s.App.Slug})
		}
		if len(resp.CheckSuites) < perPage {
			return suites, nil
		}
	}
}

// checkRunCeiling rejects suites too large to list exhaustively.
func checkRunCeiling(suiteID int64, totalCount int) error {
	if totalCount > maxCheckRunsPerSuite {
		return fmt.Errorf("%w: check suite %d reports %d runs, more than the supported %d",
			models.ErrConfiguration, suiteID, totalCount, maxCheckRunsPerSuite)
	}
	return nil
}

// ListCheckRuns fetches every check run of a suite. A suite reporting more
// than maxCheckRunsPerSuite runs is a configuration-class failure: a partial
// listing must never be processed silently.
func (c *Client) ListCheckRuns(owner, repo string, suiteID int64) ([]models.CheckRun, error) {
	var runs []models.CheckRun
	for page := 1; ; page++ {
		path := fmt.Sprintf("repos/%s/%s/check-suites/%d/check-runs?per_page=%d&page=%d",
			owner, repo, suiteID, perPage, page)
		var resp struct {
			TotalCount int               `json:"total_count"`
			CheckRuns  []models.CheckRun `json:"check_runs"`
		}
		if err := c.rest.Get(path, &resp); err != nil {
			return nil, apiErr(err, "failed to fetch check runs for suite %d", suiteID)
		}
		if err := checkRunCeiling(suiteID, resp.TotalCount); err != nil {
			return nil, err
		}
		runs = append(runs, resp.CheckRuns...)
		if len(resp.CheckRuns) < perPage {
			return runs, nil
		}
	}
}

// UpdateCheckRunConclusion rewrites the conclusion of a completed check run.
func (c *Client) UpdateCheckRunConclusion(owner, repo string, runID int64, conclusion string) error {
	path := fmt.Sprintf("repos/%s/%s/check-runs/%d", owner, repo, runID)

	jsonBody, err := json.Marshal(map[string]interface{}{
		"conclusion": conclusion,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	var response interface{}
	if err := c.rest.Patch(path, bytes.NewReader(jsonBody), &response); err != nil {
		return apiErr(err, "failed to update check run %d", runID)
	}
	return nil
}

// CreateIssueComment posts a comment on the PR's issue thread.
func (c *Client) CreateIssueComment(owner, repo string, number int, body string) error {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", owner, repo, number)

	jsonBody, err := json.Marshal(map[string]interface{}{
		"body": body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	var response interface{}
	if err := c.rest.Post(path, bytes.NewReader(jsonBody), &response); err != nil {
		return apiErr(err, "failed to post comment on #%d", number)
	}
	return nil
}
