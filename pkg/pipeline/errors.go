package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	ErrStepNameMustBeSet = errors.New("step name must be set")
	ErrRunnerMustBeSet   = errors.New("runner must be set")
	ErrDuplicateStep     = errors.New("step already exists")
)

// ExitCoder is implemented by errors that know which process exit code they stand for.
type ExitCoder interface {
	ExitCode() int
}

// StepError is returned by Run when a strict step fails.
type StepError struct {
	Step string
	Code int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed with exit code %d: %v", e.Step, e.Code, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func (e *StepError) ExitCode() int {
	return e.Code
}

// ExitCode maps an error to a process exit code.
// It returns 0 for a nil error, the code of the first ExitCoder found in the chain,
// and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coder ExitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}

	return 1
}
