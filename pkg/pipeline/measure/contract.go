package measure

import (
	"time"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

// Measure holds one metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric is what gets recorded about a single step.
type Metric interface {
	AddDuration(elapsed time.Duration)
	Duration() time.Duration
	SetExitCode(code int)
	ExitCode() int
	SetStatus(status model.Status)
	Status() model.Status
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
