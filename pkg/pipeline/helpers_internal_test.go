package pipeline

import (
	"context"
	"testing"
)

func nopRunner(t *testing.T) Runner {
	t.Helper()

	return RunnerFunc(func(context.Context) error { return nil })
}
