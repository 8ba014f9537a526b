package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs when a step is added to the pipeline.
	PrepareStep(step *StepInfo) error
	// BeforeStep runs right before the step is executed.
	BeforeStep(step *StepInfo) error
	// AfterStep runs once the step is done, or once it is known to be skipped.
	AfterStep(result *StepResult) error
	// Finish runs after the pipeline is finished.
	Finish(results []*StepResult, totalDuration time.Duration) error
}

// NoopOption implements every hook of PipelineOption as a no-op.
// Options embed it and override the hooks they care about.
type NoopOption struct{}

func (NoopOption) New() error { return nil }

func (NoopOption) PrepareStep(*StepInfo) error { return nil }

func (NoopOption) BeforeStep(*StepInfo) error { return nil }

func (NoopOption) AfterStep(*StepResult) error { return nil }

func (NoopOption) Finish([]*StepResult, time.Duration) error { return nil }

var _ PipelineOption = NoopOption{}
