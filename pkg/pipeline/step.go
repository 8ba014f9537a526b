package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

// Runner runs the work of a single step. It blocks until the work is done.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type step struct {
	details *model.StepInfo
	runner  Runner
}

func prepareStep(pipe *Pipeline, details *model.StepInfo) error {
	for _, opt := range pipe.opts {
		err := opt.PrepareStep(details)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare step %s", details.Name)
		}
	}

	return nil
}

// AddStep appends a step to the pipeline. Steps run in the order they are added.
func AddStep(pipe *Pipeline, name string, runner Runner, opts ...StepOption) (*model.StepInfo, error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}
	if name == "" {
		return nil, ErrStepNameMustBeSet
	}
	if runner == nil {
		return nil, ErrRunnerMustBeSet
	}
	if _, ok := pipe.names[name]; ok {
		return nil, errors.Wrap(ErrDuplicateStep, name)
	}

	details := &model.StepInfo{
		Kind:  model.StrictStepKind,
		Name:  name,
		Index: len(pipe.steps),
	}
	for _, opt := range opts {
		opt(details)
	}

	err := prepareStep(pipe, details)
	if err != nil {
		return nil, err
	}

	pipe.names[name] = struct{}{}
	pipe.steps = append(pipe.steps, &step{details: details, runner: runner})

	return details, nil
}

// runStep executes a single step and fires the hooks around it.
// The returned error is only set when a hook fails.
func (p *Pipeline) runStep(ctx context.Context, s *step) (*model.StepResult, error) {
	for _, opt := range p.opts {
		err := opt.BeforeStep(s.details)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to run before step hook for %s", s.details.Name)
		}
	}

	result := &model.StepResult{Step: s.details}

	start := time.Now()
	// a cancelled context fails the step without starting it
	err := ctx.Err()
	if err == nil {
		result.Started = true
		err = s.runner.Run(ctx)
	}
	result.Duration = time.Since(start)

	switch {
	case err == nil:
		result.Status = model.PassedStatus
	case s.details.Lenient():
		result.Status = model.ToleratedStatus
		result.ExitCode = ExitCode(err)
		result.Err = err
	default:
		result.Status = model.FailedStatus
		result.ExitCode = ExitCode(err)
		result.Err = err
	}

	return result, p.afterStep(result)
}

// afterStep runs every AfterStep hook, even after one failed, and returns the first error.
func (p *Pipeline) afterStep(result *model.StepResult) error {
	var firstErr error

	for _, opt := range p.opts {
		err := opt.AfterStep(result)
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "unable to run after step hook for %s", result.Step.Name)
		}
	}

	return firstErr
}
