package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/preflight/pkg/pipeline/model"
)

const namespace = "preflight"

type textfileExporter struct {
	model.NoopOption
	path string
	now  func() time.Time
}

// Finish writes the run in the Prometheus text exposition format, ready for the
// node_exporter textfile collector.
func (te *textfileExporter) Finish(results []*model.StepResult, totalDuration time.Duration) error {
	registry := prometheus.NewRegistry()

	stepDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "step_duration_seconds",
		Help:      "Time spent running the step.",
	}, []string{"step"})
	stepExitCode := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "step_exit_code",
		Help:      "Exit code of the step, 0 when it passed.",
	}, []string{"step"})
	stepStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "step_status",
		Help:      "Set to 1 for the status the step ended with.",
	}, []string{"step", "status"})
	runSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_success",
		Help:      "Set to 1 when every strict step passed.",
	})
	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Time spent running the whole pipeline.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the pipeline finished.",
	})

	registry.MustRegister(stepDuration, stepExitCode, stepStatus, runSuccess, runDuration, lastRun)

	success := 1.0
	for _, res := range results {
		stepStatus.WithLabelValues(res.Step.Name, string(res.Status)).Set(1)
		stepExitCode.WithLabelValues(res.Step.Name).Set(float64(res.ExitCode))
		if res.Ran() {
			stepDuration.WithLabelValues(res.Step.Name).Set(res.Duration.Seconds())
		}
		if res.Status == model.FailedStatus {
			success = 0
		}
	}

	runSuccess.Set(success)
	runDuration.Set(totalDuration.Seconds())
	lastRun.Set(float64(te.now().Unix()))

	err := prometheus.WriteToTextfile(te.path, registry)
	if err != nil {
		return errors.Wrapf(err, "unable to write metrics to %s", te.path)
	}

	return nil
}

// PrometheusTextfile writes step metrics to path once the pipeline is finished.
func PrometheusTextfile(path string) model.PipelineOption {
	return &textfileExporter{path: path, now: time.Now}
}
