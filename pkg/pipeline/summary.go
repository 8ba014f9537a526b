package pipeline

import (
	"time"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

// Summary is the outcome of a pipeline run.
type Summary struct {
	Results  []*model.StepResult
	Duration time.Duration
}

// Failed returns the result of the strict step that stopped the pipeline, if any.
func (s *Summary) Failed() *model.StepResult {
	for _, res := range s.Results {
		if res.Status == model.FailedStatus {
			return res
		}
	}

	return nil
}

// ExitCode is 0 when every strict step passed, and the exit code of the failing step otherwise.
func (s *Summary) ExitCode() int {
	if failed := s.Failed(); failed != nil {
		return failed.ExitCode
	}

	return 0
}

// Executed returns the names of the steps whose runner was invoked, in order.
func (s *Summary) Executed() []string {
	names := []string{}
	for _, res := range s.Results {
		if res.Ran() {
			names = append(names, res.Step.Name)
		}
	}

	return names
}

// Result returns the result of the named step.
func (s *Summary) Result(name string) (*model.StepResult, bool) {
	for _, res := range s.Results {
		if res.Step.Name == name {
			return res, true
		}
	}

	return nil, false
}
