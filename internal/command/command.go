// Package command runs an external tool as a pipeline step.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyCommand is returned when a command has no argv.
var ErrEmptyCommand = errors.New("command must not be empty")

// exitNotFound mirrors the status a shell returns for an unknown command.
const exitNotFound = 127

// ExitError is returned when the process ran and exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

// Command is an external tool invocation.
type Command struct {
	// Argv is the program followed by its arguments.
	Argv []string
	// Args are appended after Argv, verbatim.
	Args []string
	// Env is added to the environment inherited from the current process.
	Env []string
	Dir string
	// Wrapper is a diagnostic runner, for instance valgrind, the tool runs under.
	Wrapper []string
	// WrapperEnv names the variable through which the tool expects its runner. When empty,
	// the wrapper is put in front of Argv instead.
	WrapperEnv string

	Stdout io.Writer
	Stderr io.Writer
}

func (c *Command) argv() []string {
	argv := make([]string, 0, len(c.Wrapper)+len(c.Argv)+len(c.Args))
	if len(c.Wrapper) > 0 && c.WrapperEnv == "" {
		argv = append(argv, c.Wrapper...)
	}
	argv = append(argv, c.Argv...)

	return append(argv, c.Args...)
}

func (c *Command) env() []string {
	env := append(os.Environ(), c.Env...)
	if len(c.Wrapper) > 0 && c.WrapperEnv != "" {
		env = append(env, c.WrapperEnv+"="+strings.Join(c.Wrapper, " "))
	}

	return env
}

// String renders the command line, with the wrapper variable when there is one.
func (c *Command) String() string {
	line := strings.Join(c.argv(), " ")
	if len(c.Wrapper) > 0 && c.WrapperEnv != "" {
		line = fmt.Sprintf("%s=%q %s", c.WrapperEnv, strings.Join(c.Wrapper, " "), line)
	}

	return line
}

// Run starts the command and waits for it to exit.
func (c *Command) Run(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return ErrEmptyCommand
	}

	argv := c.argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.env()
	cmd.Stdin = nil
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(ctxErr, "%s interrupted", argv[0])
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}

		return &ExitError{Command: argv[0], Code: code}
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(&ExitError{Command: argv[0], Code: exitNotFound}, err.Error())
	}

	return errors.Wrapf(err, "unable to run %s", argv[0])
}
