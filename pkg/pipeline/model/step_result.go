package model

import "time"

type Status string

const (
	PendingStatus   Status = "pending"
	PassedStatus    Status = "passed"
	FailedStatus    Status = "failed"
	ToleratedStatus Status = "tolerated"
	SkippedStatus   Status = "skipped"
)

// StepResult is the outcome of a single step.
type StepResult struct {
	Step     *StepInfo
	Status   Status
	ExitCode int
	Duration time.Duration
	Err      error
	// Started is set once the step runner is invoked.
	Started bool
}

// Ran reports whether the step runner was invoked.
func (r *StepResult) Ran() bool {
	return r.Started
}
