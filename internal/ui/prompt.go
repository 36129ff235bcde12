package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// SelectPullRequest prompts the operator to pick one of the open PRs when no
// number was given on the command line.
func SelectPullRequest(prs []models.PullRequestInfo) (int, error) {
	if len(prs) == 0 {
		return 0, fmt.Errorf("no open pull requests found")
	}

	items := make([]string, len(prs))
	for i, pr := range prs {
		items[i] = FormatPullRequestItem(pr)
	}

	prompt := promptui.Select{
		Label: "Select PR",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), input)
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return prs[idx].Number, nil
}
