package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/askiada/preflight/internal/config"
)

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"preflight.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run  RunCmd  `cmd:"" default:"withargs" help:"Run the pipeline, extra arguments go to the test step"`
	Plan PlanCmd `cmd:"" help:"Print the steps without running them"`
	Init InitCmd `cmd:"" help:"Write a default configuration file"`

	// Trailing holds the arguments from the first "--" onwards, "--" included. They are cut
	// before parsing so kong never sees them, see SplitTrailing.
	Trailing []string `kong:"-"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// SplitTrailing cuts args at the first "--". The head is parsed by kong, the tail is forwarded
// verbatim to the test step.
func SplitTrailing(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i:]
		}
	}

	return args, nil
}

// noTrailing rejects trailing arguments for the commands that do not run the test step.
func (c *CLI) noTrailing(command string) error {
	if len(c.Trailing) == 0 {
		return nil
	}

	return &usageError{err: errors.Errorf("%s does not take arguments after --", command)}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.stderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return nil
}

func (c *CLI) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}

	return c.Stdout
}

func (c *CLI) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}

	return c.Stderr
}

// usageError marks configuration and usage mistakes, which exit with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func (e *usageError) ExitCode() int { return 2 }

// StepFlags are shared by the commands that build the pipeline.
type StepFlags struct {
	Memcheck  bool   `help:"Run the test step under the memory-diagnostic wrapper"`
	NoCleanup bool   `help:"Skip the removal of stale generated artifacts"`
	Dest      string `help:"Destination the documentation is published to"`
}

func (f *StepFlags) apply(cfg *config.Config) {
	if f.Memcheck {
		cfg.Test.Memcheck = true
	}
	if f.NoCleanup {
		cfg.Cleanup.Enabled = false
	}
	if f.Dest != "" {
		cfg.Publish.Destination = f.Dest
	}
}

func loadConfig(path string, flags *StepFlags) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, &usageError{err: err}
	}

	flags.apply(cfg)

	err = cfg.Validate()
	if err != nil {
		return nil, &usageError{err: err}
	}

	return cfg, nil
}
