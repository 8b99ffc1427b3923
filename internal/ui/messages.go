package ui

import (
	"github.com/altinukshini/logview/internal/model"
)

// Source loading messages
type LogLoadedMsg struct {
	Name    string
	Content string
	Err     error
}

type FileChangedMsg struct {
	Path    string
	Content string
	Err     error
}

// Job tailing messages
type LogTailTickMsg struct {
	JobID int64
}

type JobTailStatusMsg struct {
	JobID     int64
	Job       *model.Job
	Completed bool
	Err       error
}

type JobLogLoadedMsg struct {
	JobID   int64
	JobName string
	Content string
	// Final is set once the job has completed and the log will not grow.
	Final bool
	Err   error
}

type StatusMsg struct {
	Text string
}

type ClipboardMsg struct {
	LineNumber int
	Err        error
}

type PagerClosedMsg struct {
	Err error
}
