package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

// Pipeline is an ordered list of steps run one after the other.
type Pipeline struct {
	opts  []model.PipelineOption
	steps []*step
	names map[string]struct{}
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		opts:  opts,
		names: make(map[string]struct{}),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Steps returns the registered steps in execution order.
func (p *Pipeline) Steps() []*model.StepInfo {
	infos := make([]*model.StepInfo, len(p.steps))
	for i, s := range p.steps {
		infos[i] = s.details
	}

	return infos
}

// Run executes the steps in order and stops at the first failing strict step.
// The summary is always returned and lists every registered step, including the skipped ones.
// When a strict step fails the error is a *StepError.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Results: make([]*model.StepResult, 0, len(p.steps))}

	var runErr error

	for _, s := range p.steps {
		if runErr != nil {
			skipped := &model.StepResult{Step: s.details, Status: model.SkippedStatus}
			summary.Results = append(summary.Results, skipped)

			// the run already failed, a hook error here adds nothing
			_ = p.afterStep(skipped)

			continue
		}

		result, err := p.runStep(ctx, s)
		if result == nil {
			// a before step hook failed, the runner never started
			result = &model.StepResult{Step: s.details, Status: model.SkippedStatus}
			_ = p.afterStep(result)
		}
		summary.Results = append(summary.Results, result)

		switch {
		case err != nil:
			runErr = err
		case result.Status == model.FailedStatus:
			runErr = &StepError{Step: s.details.Name, Code: result.ExitCode, Err: result.Err}
		}
	}

	summary.Duration = time.Since(start)

	err := p.finishRun(summary)
	if runErr != nil {
		return summary, runErr
	}

	return summary, err
}

func (p *Pipeline) finishRun(summary *Summary) error {
	for _, opt := range p.opts {
		err := opt.Finish(summary.Results, summary.Duration)
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
