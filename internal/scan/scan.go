// Package scan extracts issue references ("#<digits>" tokens) from free
// text. Scanning and merging are pure; no I/O happens here.
package scan

import (
	"regexp"

	"github.com/issuegate/gh-issue-gate/internal/models"
)

// ASCII digits only; unicode digit classes are deliberately not matched.
var referencePattern = regexp.MustCompile(`#\d+`)

// Scan returns every issue reference in text in left-to-right order,
// duplicates included. Dedup is Merge's job. An empty string yields nil,
// which callers treat the same as "no match" — absence is not an error.
func Scan(text string) []models.IssueReference {
	if text == "" {
		return nil
	}
	matches := referencePattern.FindAllString(text, -1)
	if matches == nil {
		return nil
	}
	refs := make([]models.IssueReference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, models.IssueReference(m))
	}
	return refs
}

// Merge concatenates the given reference lists in input order and
// deduplicates by exact token, keeping the first occurrence. The result is
// always non-nil, so "no sources supplied" and "sources with no references"
// both come back as an explicitly empty set.
func Merge(sets ...[]models.IssueReference) models.ReferenceSet {
	merged := models.ReferenceSet{}
	seen := make(map[models.IssueReference]struct{})
	for _, set := range sets {
		for _, ref := range set {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			merged = append(merged, ref)
		}
	}
	return merged
}
