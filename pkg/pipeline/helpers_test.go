package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/askiada/preflight/pkg/pipeline"
	"github.com/askiada/preflight/pkg/pipeline/model"
)

type exitErr struct {
	code int
}

func (e exitErr) Error() string { return "exit status" }

func (e exitErr) ExitCode() int { return e.code }

// journal records which runners were invoked.
type journal struct {
	mu   sync.Mutex
	runs []string
}

func (j *journal) runner(t *testing.T, name string, err error) pipeline.Runner {
	t.Helper()

	return pipeline.RunnerFunc(func(ctx context.Context) error {
		j.mu.Lock()
		defer j.mu.Unlock()
		j.runs = append(j.runs, name)

		return err
	})
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	return append([]string{}, j.runs...)
}

// hookRecorder records every hook invocation as "hook:step".
type hookRecorder struct {
	model.NoopOption
	mu       sync.Mutex
	calls    []string
	finished []*model.StepResult
	errOn    string
}

func (h *hookRecorder) record(call string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
	if call == h.errOn {
		return assertErr
	}

	return nil
}

func (h *hookRecorder) New() error { return h.record("new") }

func (h *hookRecorder) PrepareStep(step *model.StepInfo) error {
	return h.record("prepare:" + step.Name)
}

func (h *hookRecorder) BeforeStep(step *model.StepInfo) error {
	return h.record("before:" + step.Name)
}

func (h *hookRecorder) AfterStep(result *model.StepResult) error {
	return h.record("after:" + result.Step.Name + ":" + string(result.Status))
}

func (h *hookRecorder) Finish(results []*model.StepResult, _ time.Duration) error {
	h.finished = results

	return h.record("finish")
}
