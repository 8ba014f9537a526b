package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/askiada/preflight/internal/workflow"
)

type PlanCmd struct {
	StepFlags `embed:""`
}

func (p *PlanCmd) Run(cli *CLI) error {
	err := cli.noTrailing("plan")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli.Config, &p.StepFlags)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.stdout(), 0, 4, 2, ' ', 0)
	for i, step := range workflow.Steps(cfg, workflow.Options{}) {
		kind := "strict"
		if step.Lenient {
			kind = "lenient"
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", i+1, step.Name, kind, step.Description)
	}

	return tw.Flush()
}
