package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/preflight/pkg/pipeline"
	"github.com/askiada/preflight/pkg/pipeline/logger"
)

func TestPipelineLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pipe, err := pipeline.New(logger.PipelineLogger(log))
	require.NoError(t, err)

	ok := pipeline.RunnerFunc(func(context.Context) error { return nil })
	_, err = pipeline.AddStep(pipe, "lint", ok, pipeline.StepDescription("cargo clippy"))
	require.NoError(t, err)
	_, err = pipeline.AddStep(pipe, "cleanup", pipeline.RunnerFunc(func(context.Context) error {
		return errors.New("permission denied")
	}), pipeline.StepLenient())
	require.NoError(t, err)
	_, err = pipeline.AddStep(pipe, "build", pipeline.RunnerFunc(func(context.Context) error {
		return errors.New("does not compile")
	}))
	require.NoError(t, err)
	_, err = pipeline.AddStep(pipe, "test", ok)
	require.NoError(t, err)

	_, err = pipe.Run(t.Context())
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="Running step" step=lint command="cargo clippy"`)
	assert.Contains(t, out, `msg="Step passed" step=lint status=passed`)
	assert.Contains(t, out, `level=WARN msg="Step failed, continuing" step=cleanup status=tolerated exit_code=1`)
	assert.Contains(t, out, `level=ERROR msg="Step failed" step=build status=failed exit_code=1`)
	assert.Contains(t, out, `level=DEBUG msg="Step skipped" step=test status=skipped`)
	assert.Contains(t, out, `level=ERROR msg="Pipeline failed" step=build exit_code=1`)
}
