package model

// StepKind tells the pipeline how to react to a failing step.
type StepKind string

const (
	// StrictStepKind aborts the pipeline when the step fails.
	StrictStepKind StepKind = "strict"
	// LenientStepKind reports the failure and lets the pipeline continue.
	LenientStepKind StepKind = "lenient"
)

// StepInfo describes a registered step.
type StepInfo struct {
	Kind        StepKind
	Name        string
	Description string
	Index       int
}

// Lenient reports whether a failure of the step is tolerated.
func (s *StepInfo) Lenient() bool {
	return s.Kind == LenientStepKind
}

// StartStep and EndStep are virtual steps framing every pipeline.
var (
	StartStep = &StepInfo{Name: "start", Index: -1}
	EndStep   = &StepInfo{Name: "end", Index: -1}
)
