package pipeline

import "github.com/askiada/preflight/pkg/pipeline/model"

// StepOption customises a step when it is added to the pipeline.
type StepOption func(s *model.StepInfo)

// StepLenient marks the step as tolerant: its failure is reported but does not stop the pipeline.
func StepLenient() StepOption {
	return func(s *model.StepInfo) {
		s.Kind = model.LenientStepKind
	}
}

// StepDescription sets a human readable description of what the step runs.
func StepDescription(description string) StepOption {
	return func(s *model.StepInfo) {
		s.Description = description
	}
}
