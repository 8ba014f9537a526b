package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/preflight/internal/config"
	"github.com/askiada/preflight/pkg/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	head, trailing := SplitTrailing(args)
	cli := CLI{Trailing: trailing, Stdout: &stdout, Stderr: &stderr}

	parser, err := kong.New(&cli, kong.Name("preflight"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse(head)
	require.NoError(t, err)

	err = ctx.Run(&cli)

	return stdout.String(), err
}

// shellConfig writes a configuration whose steps are shell one-liners running in dir.
func shellConfig(t *testing.T, dir string, lintExit int) string {
	t.Helper()

	cfg := config.Default()
	cfg.Workdir = dir
	cfg.Lint.Command = []string{"sh", "-c", "exit " + strconv.Itoa(lintExit)}
	cfg.Build.Command = []string{"true"}
	cfg.Test.Command = []string{"sh", "-c", `printf '%s\n' "$@" > args.txt`, "sh"}
	cfg.Doc.Command = []string{"sh", "-c", "mkdir -p target/doc && touch target/doc/index.html"}
	cfg.Publish.Destination = filepath.Join(dir, "published")

	path := filepath.Join(dir, "preflight.yaml")
	require.NoError(t, config.Write(cfg, path, false))

	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := shellConfig(t, dir, 0)
	graph := filepath.Join(dir, "pipeline.dot")
	metrics := filepath.Join(dir, "preflight.prom")

	_, err := execute(t, "-c", path, "run", "--graph", graph, "--metrics", metrics, "png", "--nocapture", "-x")
	require.NoError(t, err)

	args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "png\n--nocapture\n-x\n", string(args))

	assert.FileExists(t, filepath.Join(dir, "published", "index.html"))
	assert.FileExists(t, graph)
	assert.FileExists(t, metrics)
}

func TestRunCommandForwardsArgs(t *testing.T) {
	tcs := map[string]struct {
		args []string
		want string
	}{
		"dash dash without run": {
			args: []string{"--", "--nocapture"},
			want: "--\n--nocapture\n",
		},
		"dash dash after run": {
			args: []string{"run", "--", "--nocapture"},
			want: "--\n--nocapture\n",
		},
		"flags then repeated dash dash": {
			args: []string{"run", "--memcheck", "--", "a", "--", "b"},
			want: "--\na\n--\nb\n",
		},
		"positional then dash dash": {
			args: []string{"run", "png", "--", "--nocapture"},
			want: "png\n--\n--nocapture\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := shellConfig(t, dir, 0)

			_, err := execute(t, append([]string{"-c", path}, tc.args...)...)
			require.NoError(t, err)

			args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(args))
		})
	}
}

func TestSplitTrailing(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args     []string
		head     []string
		trailing []string
	}{
		"no dash dash":     {args: []string{"run", "png"}, head: []string{"run", "png"}},
		"leading":          {args: []string{"--", "x"}, head: []string{}, trailing: []string{"--", "x"}},
		"first one splits": {args: []string{"-c", "p.yaml", "--", "a", "--"}, head: []string{"-c", "p.yaml"}, trailing: []string{"--", "a", "--"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			head, trailing := SplitTrailing(tc.args)
			assert.Equal(t, tc.head, head)
			assert.Equal(t, tc.trailing, trailing)
		})
	}
}

func TestRunCommandFailingStep(t *testing.T) {
	dir := t.TempDir()
	path := shellConfig(t, dir, 7)

	_, err := execute(t, "-c", path, "run")
	require.Error(t, err)
	assert.Equal(t, 7, pipeline.ExitCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "args.txt"))
}

func TestRunCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preflight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lint:\n  command: []\n"), 0o644))

	_, err := execute(t, "-c", path, "run")
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Equal(t, 2, pipeline.ExitCode(err))
}

func TestPlanCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "-c", path, "plan", "--no-cleanup", "--memcheck")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "lint")
	assert.Contains(t, lines[0], "cargo clippy")
	assert.Contains(t, lines[2], "valgrind")
	assert.NotContains(t, out, "cleanup")
}

func TestPlanCommandRejectsTrailing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := execute(t, "-c", path, "plan", "--", "x")
	require.Error(t, err)
	assert.Equal(t, 2, pipeline.ExitCode(err))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preflight.yaml")

	out, err := execute(t, "-c", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "-c", path, "init")
	assert.Equal(t, 2, pipeline.ExitCode(err))

	_, err = execute(t, "-c", path, "init", "--force")
	require.NoError(t, err)
}

func TestRunUntilSignal(t *testing.T) {
	t.Parallel()

	sigC := make(chan os.Signal, 1)
	started := make(chan struct{})

	go func() {
		<-started
		sigC <- syscall.SIGINT
	}()

	err := runUntil(t.Context(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()

		return ctx.Err()
	}, sigC)

	var sigErr *signalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, 130, pipeline.ExitCode(err))
}

func TestRunUntilDone(t *testing.T) {
	t.Parallel()

	sigC := make(chan os.Signal)

	err := runUntil(t.Context(), func(context.Context) error {
		time.Sleep(time.Millisecond)

		return nil
	}, sigC)
	assert.NoError(t, err)
}
