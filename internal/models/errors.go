package models

import "errors"

// Error classes for the two failure channels that are not policy outcomes.
// A missing issue reference is the expected negative outcome of the gate and
// is reported through service.Outcome, never through these.
var (
	// ErrConfiguration marks missing or invalid run context: absent
	// owner/repo/head SHA, an unknown source mode, or a check suite too
	// large to list exhaustively. Fatal, nothing is retried or skipped.
	ErrConfiguration = errors.New("configuration error")

	// ErrCollaborator marks a GitHub API failure. Fatal for label/commit
	// retrieval and comment posting; individual check-run updates degrade
	// to a logged warning instead.
	ErrCollaborator = errors.New("github api error")
)
