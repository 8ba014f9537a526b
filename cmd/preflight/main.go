package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/askiada/preflight/cmd/preflight/commands"
	"github.com/askiada/preflight/pkg/pipeline"
)

var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	args, trailing := commands.SplitTrailing(os.Args[1:])

	cli := commands.CLI{Trailing: trailing}
	parser := kong.Must(&cli,
		kong.Name("preflight"),
		kong.Description("Lint, build, test and document a project, stopping at the first failure."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	err = ctx.Run(&cli)
	if err != nil {
		slog.Error("preflight failed", "error", err)
		os.Exit(pipeline.ExitCode(err))
	}
}
