package ui

import "github.com/lepinkainen/videodedup/video"

// ProgressMsg reports how many files have finished feature extraction.
// Completion order is arbitrary, so Done is a running count.
type ProgressMsg struct {
	Done  int
	Total int
}

// DetectDoneMsg carries the final detection result into the TUI.
type DetectDoneMsg struct {
	Groups []video.DuplicateGroup
	Err    error
}

// DeletionCompleteMsg reports the outcome of deleting the selected files.
// An empty FilePath means every pending file was removed.
type DeletionCompleteMsg struct {
	FilePath string
	Success  bool
	Error    error
}
