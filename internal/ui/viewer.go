package ui

import "sdtr/internal/domain"

// Viewer displays the failed tests of a run in an interactive TUI
type Viewer interface {
	View(summary *domain.RunSummary) error
}

var _ Viewer = (*FailuresViewer)(nil)
