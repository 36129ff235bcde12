package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// FormatUnreferencedCommits renders the commits that individually lack an
// issue reference as an aligned table for operator diagnostics.
func FormatUnreferencedCommits(commits []models.Commit) string {
	if len(commits) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Commits without an issue reference:\n")
	for _, commit := range commits {
		subject := commit.Message
		if i := strings.IndexByte(subject, '\n'); i >= 0 {
			subject = subject[:i]
		}
		subject = runewidth.Truncate(subject, 72, "...")
		sha := commit.SHA
		if len(sha) > 10 {
			sha = sha[:10]
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", PadRight(sha, 11), subject))
	}
	return b.String()
}

// FormatPullRequestItem renders one PR line for the interactive picker.
func FormatPullRequestItem(pr models.PullRequestInfo) string {
	state := pr.State
	if pr.Draft {
		state += " (Draft)"
	}
	title := runewidth.Truncate(pr.Title, 75, "...")
	return fmt.Sprintf(
		"#%s %s %s %s %s",
		PadRight(fmt.Sprintf("%-6d", pr.Number), 7),
		PadRight(title, 75),
		PadRight(pr.User, 15),
		PadRight(state, 10),
		PadRight(pr.UpdatedAt, 20),
	)
}
