// Package logger provides a pipeline option reporting the progress of a run with log/slog.
package logger

import (
	"log/slog"
	"time"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

type pipelineLogger struct {
	model.NoopOption
	logger *slog.Logger
}

func (pl *pipelineLogger) PrepareStep(step *model.StepInfo) error {
	pl.logger.Debug("Step registered", "step", step.Name, "kind", step.Kind, "command", step.Description)

	return nil
}

func (pl *pipelineLogger) BeforeStep(step *model.StepInfo) error {
	pl.logger.Info("Running step", "step", step.Name, "command", step.Description)

	return nil
}

func (pl *pipelineLogger) AfterStep(result *model.StepResult) error {
	attrs := []any{"step", result.Step.Name, "status", result.Status}

	switch result.Status {
	case model.PassedStatus:
		pl.logger.Info("Step passed", append(attrs, "duration", result.Duration)...)
	case model.ToleratedStatus:
		pl.logger.Warn("Step failed, continuing",
			append(attrs, "exit_code", result.ExitCode, "duration", result.Duration, "error", result.Err)...)
	case model.FailedStatus:
		pl.logger.Error("Step failed",
			append(attrs, "exit_code", result.ExitCode, "duration", result.Duration, "error", result.Err)...)
	default:
		pl.logger.Debug("Step skipped", attrs...)
	}

	return nil
}

func (pl *pipelineLogger) Finish(results []*model.StepResult, totalDuration time.Duration) error {
	for _, res := range results {
		if res.Status == model.FailedStatus {
			pl.logger.Error("Pipeline failed",
				"step", res.Step.Name, "exit_code", res.ExitCode, "duration", totalDuration)

			return nil
		}
	}

	pl.logger.Info("Pipeline succeeded", "steps", len(results), "duration", totalDuration)

	return nil
}

// PipelineLogger logs every step of the run. A nil logger uses slog.Default.
func PipelineLogger(logger *slog.Logger) model.PipelineOption {
	if logger == nil {
		logger = slog.Default()
	}

	return &pipelineLogger{logger: logger}
}
