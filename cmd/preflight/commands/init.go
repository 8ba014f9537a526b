package commands

import (
	"fmt"

	"github.com/askiada/preflight/internal/config"
)

type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(cli *CLI) error {
	err := cli.noTrailing("init")
	if err != nil {
		return err
	}

	err = config.Write(config.Default(), cli.Config, i.Force)
	if err != nil {
		return &usageError{err: err}
	}

	fmt.Fprintf(cli.stdout(), "Configuration written to %s\n", cli.Config)

	return nil
}
