package service

import (
	"fmt"
	"strings"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// ComposeComment builds the success message listing every distinct
// reference in first-occurrence order. Calling it with an empty set is a
// programming error: the gate never reaches composition on the
// missing-reference path.
func ComposeComment(refs models.ReferenceSet) (string, error) {
	if refs.IsEmpty() {
		return "", fmt.Errorf("cannot compose a comment for an empty reference set")
	}

	tokens := make([]string, len(refs))
	for i, ref := range refs {
		tokens[i] = string(ref)
	}

	noun := "issue"
	if len(tokens) > 1 {
		noun = "issues"
	}
	return fmt.Sprintf("This pull request references %s %s. Great job! 🎉",
		noun, strings.Join(tokens, ", ")), nil
}
