package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/preflight/pkg/pipeline/measure"
	"github.com/askiada/preflight/pkg/pipeline/model"
)

type pipelineDrawer struct {
	model.NoopOption
	Drawer
	m         measure.Measure
	startTime time.Time
	last      string
}

func (pd *pipelineDrawer) New() error {
	pd.startTime = time.Now()

	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}
	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	pd.last = model.StartStep.Name

	return nil
}

// AfterStep chains the step after the previous one. Steps are only drawn once the pipeline
// reports them, so a step rejected while being added never shows up.
func (pd *pipelineDrawer) AfterStep(result *model.StepResult) error {
	name := result.Step.Name

	err := pd.AddStep(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add step %s to drawer", name)
	}
	err = pd.AddLink(pd.last, name)
	if err != nil {
		return err
	}

	pd.last = name

	return nil
}

func (pd *pipelineDrawer) Finish([]*model.StepResult, time.Duration) error {
	err := pd.AddLink(pd.last, model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link end step")
	}

	err = pd.SetTotalTime(model.EndStep.Name, pd.startTime)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline once it is finished. When measure is set, steps are
// coloured and labelled from it, so the measure option must come before the drawer option.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
