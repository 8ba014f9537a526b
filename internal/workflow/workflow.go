// Package workflow assembles the lint, build, cleanup, test, doc and publish steps from the configuration.
package workflow

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/preflight/internal/cleanup"
	"github.com/askiada/preflight/internal/command"
	"github.com/askiada/preflight/internal/config"
	"github.com/askiada/preflight/internal/publish"
	"github.com/askiada/preflight/pkg/pipeline"
	"github.com/askiada/preflight/pkg/pipeline/model"
)

const (
	LintStep    = "lint"
	BuildStep   = "build"
	CleanupStep = "cleanup"
	TestStep    = "test"
	DocStep     = "doc"
	PublishStep = "publish"
)

// Options are the per-run inputs that do not come from the configuration.
type Options struct {
	// TestArgs are forwarded verbatim to the test command.
	TestArgs []string
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

// Step is a step ready to be added to a pipeline.
type Step struct {
	Name        string
	Runner      pipeline.Runner
	Lenient     bool
	Description string
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}

	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}

	return o.Stderr
}

// Steps lists the steps in execution order. The cleanup step is left out when disabled.
func Steps(cfg *config.Config, opts Options) []Step {
	newCommand := func(argv []string) *command.Command {
		return &command.Command{
			Argv:   argv,
			Dir:    cfg.Workdir,
			Stdout: opts.stdout(),
			Stderr: opts.stderr(),
		}
	}

	lint := newCommand(cfg.Lint.Command)
	build := newCommand(cfg.Build.Command)
	test := newCommand(cfg.Test.Command)
	test.Args = opts.TestArgs
	if cfg.Test.Memcheck {
		test.Wrapper = cfg.Test.Wrapper
		test.WrapperEnv = cfg.Test.WrapperEnv
	}
	doc := newCommand(cfg.Doc.Command)

	copier := &publish.Copier{
		Source:      cfg.Path(cfg.Publish.Source),
		Destination: cfg.Path(cfg.Publish.Destination),
	}

	steps := []Step{
		{Name: LintStep, Runner: lint, Description: lint.String()},
		{Name: BuildStep, Runner: build, Description: build.String()},
	}

	if cfg.Cleanup.Enabled {
		cleaner := &cleanup.Cleaner{
			Patterns: cfg.Cleanup.Patterns,
			Root:     cfg.Workdir,
			Logger:   opts.Logger,
		}
		steps = append(steps, Step{
			Name:        CleanupStep,
			Runner:      cleaner,
			Lenient:     true,
			Description: "remove " + joinPatterns(cfg.Cleanup.Patterns),
		})
	}

	return append(steps,
		Step{Name: TestStep, Runner: test, Description: test.String()},
		Step{Name: DocStep, Runner: doc, Description: doc.String()},
		Step{Name: PublishStep, Runner: copier, Description: "copy " + copier.Source + " to " + copier.Destination},
	)
}

func joinPatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "nothing"
	}

	return strings.Join(patterns, " ")
}

// New validates cfg and returns a pipeline with every step registered.
func New(cfg *config.Config, opts Options, pipeOpts ...model.PipelineOption) (*pipeline.Pipeline, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	pipe, err := pipeline.New(pipeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	for _, step := range Steps(cfg, opts) {
		stepOpts := []pipeline.StepOption{pipeline.StepDescription(step.Description)}
		if step.Lenient {
			stepOpts = append(stepOpts, pipeline.StepLenient())
		}

		_, err := pipeline.AddStep(pipe, step.Name, step.Runner, stepOpts...)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add %s step", step.Name)
		}
	}

	return pipe, nil
}
