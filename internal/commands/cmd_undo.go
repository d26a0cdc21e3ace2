package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/printer"
)

type UndoCmd struct {
	flags   *Flags
	dataset string
}

// NewUndoCmd creates a new undo command.
func NewUndoCmd(flags *Flags) *UndoCmd {
	return &UndoCmd{flags: flags}
}

// Register adds the undo command to the application.
func (cmd *UndoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "undo",
		Usage:     "Revert the last change the server applied to a dataset",
		UsageText: "lingo undo --dataset <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dataset",
				Aliases:     []string{"d"},
				Usage:       "dataset id",
				Sources:     cli.EnvVars("LINGO_DATASET"),
				Required:    true,
				Destination: &cmd.dataset,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *UndoCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	err := cmd.flags.Client().Undo(ctx, cmd.dataset)
	switch {
	case err == nil:
		p.Successf("Undo successful")
		return nil
	case errors.Is(err, job.ErrNothingToUndo):
		p.Infof("Nothing to undo")
		return nil
	default:
		return err
	}
}
