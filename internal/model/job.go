package model

import "time"

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusWaiting    JobStatus = "waiting"
	JobStatusPending    JobStatus = "pending"
)

type JobConclusion string

const (
	ConclusionSuccess   JobConclusion = "success"
	ConclusionFailure   JobConclusion = "failure"
	ConclusionCancelled JobConclusion = "cancelled"
	ConclusionSkipped   JobConclusion = "skipped"
)

// Job is a GitHub Actions job as returned by the jobs endpoint.
type Job struct {
	ID          int64         `json:"id"`
	RunID       int64         `json:"run_id"`
	RunAttempt  int           `json:"run_attempt"`
	Name        string        `json:"name"`
	Status      JobStatus     `json:"status"`
	Conclusion  JobConclusion `json:"conclusion"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Steps       []Step        `json:"steps"`
	HTMLURL     string        `json:"html_url"`
	RunnerName  string        `json:"runner_name"`
}

type Step struct {
	Name        string        `json:"name"`
	Status      JobStatus     `json:"status"`
	Conclusion  JobConclusion `json:"conclusion"`
	Number      int           `json:"number"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

func (j Job) Completed() bool {
	return j.Status == JobStatusCompleted
}

func (j Job) Duration() time.Duration {
	if j.CompletedAt.IsZero() || j.StartedAt.IsZero() {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}
