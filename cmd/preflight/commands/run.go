package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/askiada/preflight/internal/workflow"
	"github.com/askiada/preflight/pkg/pipeline/drawer"
	"github.com/askiada/preflight/pkg/pipeline/logger"
	"github.com/askiada/preflight/pkg/pipeline/measure"
	"github.com/askiada/preflight/pkg/pipeline/model"
)

type RunCmd struct {
	StepFlags `embed:""`

	Graph   string   `help:"Write the executed pipeline as a Graphviz DOT file"`
	Metrics string   `help:"Write step metrics in Prometheus text format"`
	Args    []string `arg:"" optional:"" passthrough:"" help:"Arguments forwarded verbatim to the test step"`
}

// testArgs are the positional arguments followed by everything from the first "--".
func (r *RunCmd) testArgs(cli *CLI) []string {
	args := make([]string, 0, len(r.Args)+len(cli.Trailing))
	args = append(args, r.Args...)

	return append(args, cli.Trailing...)
}

func (r *RunCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config, &r.StepFlags)
	if err != nil {
		return err
	}

	if r.Graph != "" {
		cfg.Report.Graph = r.Graph
	}
	if r.Metrics != "" {
		cfg.Report.Metrics = r.Metrics
	}

	log := slog.Default().With("run_id", uuid.NewString())
	msr := measure.NewDefaultMeasure()

	opts := []model.PipelineOption{
		logger.PipelineLogger(log),
		measure.PipelineMeasure(msr),
	}
	if cfg.Report.Graph != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.Report.Graph), msr))
	}
	if cfg.Report.Metrics != "" {
		opts = append(opts, measure.PrometheusTextfile(cfg.Report.Metrics))
	}

	pipe, err := workflow.New(cfg, workflow.Options{
		TestArgs: r.testArgs(cli),
		Stdout:   cli.stdout(),
		Stderr:   cli.stderr(),
		Logger:   log,
	}, opts...)
	if err != nil {
		return &usageError{err: err}
	}

	return runUntilSignal(context.Background(), func(ctx context.Context) error {
		_, err := pipe.Run(ctx)

		return err
	})
}
