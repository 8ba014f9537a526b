package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

var ErrUnknownStep = errors.New("no metric for step")

type pipelineMeasure struct {
	model.NoopOption
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStep.Name).SetStatus(model.PassedStatus)
	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) AfterStep(result *model.StepResult) error {
	mt := pm.GetMetric(result.Step.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStep, result.Step.Name)
	}

	mt.SetStatus(result.Status)
	mt.SetExitCode(result.ExitCode)
	if result.Ran() {
		mt.AddDuration(result.Duration)
		mt.SetTotalDuration(time.Since(pm.startTime))
	}

	return nil
}

func (pm *pipelineMeasure) Finish(results []*model.StepResult, totalDuration time.Duration) error {
	end := pm.GetMetric(model.EndStep.Name)
	if end == nil {
		return errors.Wrap(ErrUnknownStep, model.EndStep.Name)
	}

	status := model.PassedStatus
	for _, res := range results {
		if res.Status == model.FailedStatus {
			status = model.FailedStatus
			end.SetExitCode(res.ExitCode)

			break
		}
	}

	end.SetStatus(status)
	end.SetTotalDuration(totalDuration)

	return nil
}

// PipelineMeasure records the status, exit code and duration of every step into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
