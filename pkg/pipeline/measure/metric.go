package measure

import (
	"sync"
	"time"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

type DefaultMetric struct {
	mu          *sync.Mutex
	status      model.Status
	EndDuration time.Duration
	stepElapsed time.Duration
	exitCode    int
}

func NewDefaultMetric() *DefaultMetric {
	return &DefaultMetric{
		mu:     &sync.Mutex{},
		status: model.PendingStatus,
	}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stepElapsed += elapsed
}

// Duration is the time spent running the step, rounded for display.
func (mt *DefaultMetric) Duration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return round(mt.stepElapsed)
}

func (mt *DefaultMetric) SetExitCode(code int) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.exitCode = code
}

func (mt *DefaultMetric) ExitCode() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.exitCode
}

func (mt *DefaultMetric) SetStatus(status model.Status) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.status = status
}

func (mt *DefaultMetric) Status() model.Status {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.status
}

// SetTotalDuration records the time elapsed since the pipeline started when the step ended.
func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
