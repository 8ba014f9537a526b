package drawer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/preflight/pkg/pipeline"
	"github.com/askiada/preflight/pkg/pipeline/drawer"
	"github.com/askiada/preflight/pkg/pipeline/measure"
	"github.com/askiada/preflight/pkg/pipeline/model"
)

// rejectStep fails PrepareStep for one step name.
type rejectStep struct {
	model.NoopOption
	name string
}

func (r rejectStep) PrepareStep(step *model.StepInfo) error {
	if step.Name == r.name {
		return errors.New("rejected")
	}

	return nil
}

func runPipeline(t *testing.T, dotFile string, failing string) {
	t.Helper()

	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
	)
	require.NoError(t, err)

	for _, name := range []string{"lint", "build", "test"} {
		stepName := name
		_, err := pipeline.AddStep(pipe, stepName, pipeline.RunnerFunc(func(context.Context) error {
			time.Sleep(time.Millisecond)
			if stepName == failing {
				return errors.New("failed")
			}

			return nil
		}))
		require.NoError(t, err)
	}

	_, _ = pipe.Run(t.Context())
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	runPipeline(t, dotFile, "")

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)

	got := strings.ToLower(string(content))
	assert.True(t, strings.HasPrefix(got, "strict digraph {"))
	assert.Contains(t, got, `rankdir="lr";`)
	assert.Contains(t, got, `"start" -> "lint"`)
	assert.Contains(t, got, `"lint" -> "build"`)
	assert.Contains(t, got, `"build" -> "test"`)
	assert.Contains(t, got, `"test" -> "end"`)
	assert.Contains(t, got, `fillcolor="#2ea043"`)
	assert.Contains(t, got, "passed, ")
	assert.NotContains(t, got, `fillcolor="#da3633"`)
}

func TestPipelineDrawerFailure(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	runPipeline(t, dotFile, "build")

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)

	got := strings.ToLower(string(content))
	// build failed, end is failed too
	assert.Equal(t, 2, strings.Count(got, `fillcolor="#da3633"`))
	assert.Contains(t, got, `fillcolor="#a0a0a0"`)
	assert.Contains(t, got, "exit 1")
	assert.Contains(t, got, "skipped")
}

func TestPipelineDrawerWithoutMeasure(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	pipe, err := pipeline.New(drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), nil))
	require.NoError(t, err)

	_, err = pipeline.AddStep(pipe, "lint", pipeline.RunnerFunc(func(context.Context) error { return nil }))
	require.NoError(t, err)

	_, err = pipe.Run(t.Context())
	require.NoError(t, err)

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"lint" -> "end"`)
	assert.NotContains(t, string(content), "fillcolor")
}

func TestPipelineDrawerRejectedStep(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
		rejectStep{name: "build"},
	)
	require.NoError(t, err)

	ok := pipeline.RunnerFunc(func(context.Context) error { return nil })
	_, err = pipeline.AddStep(pipe, "lint", ok)
	require.NoError(t, err)
	_, err = pipeline.AddStep(pipe, "build", ok)
	require.Error(t, err)
	_, err = pipeline.AddStep(pipe, "test", ok)
	require.NoError(t, err)

	_, err = pipe.Run(t.Context())
	require.NoError(t, err)

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)

	got := string(content)
	assert.Contains(t, got, `"start" -> "lint"`)
	assert.Contains(t, got, `"lint" -> "test"`)
	assert.Contains(t, got, `"test" -> "end"`)
	assert.NotContains(t, got, `"build"`)
}

func TestDOTDrawerErrors(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "missing", "pipeline.dot"))
	require.NoError(t, d.AddStep("lint"))
	assert.Error(t, d.AddStep("lint"))
	assert.Error(t, d.AddLink("lint", "unknown"))
	assert.Error(t, d.SetTotalTime("unknown", time.Now()))
	assert.Error(t, d.Draw())
}
