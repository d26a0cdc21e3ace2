package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lingo/internal/tui"
)

type TuiCmd struct {
	flags   *Flags
	dataset string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "dataset id to open",
			Sources:     cli.EnvVars("LINGO_DATASET"),
			Destination: &cmd.dataset,
		},
	}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive dataset grid",
		UsageText: "lingo tui --dataset <id>",
		Flags:     cmd.Flags(),
		Action:    cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	cfg := cmd.flags.Config
	logger := log.Logger

	m := tui.New(tui.Options{
		DatasetID:      cmd.dataset,
		Backend:        cmd.flags.Client(),
		RowLimit:       cfg.Backend.RowLimit,
		MaxFailures:    cfg.Poll.MaxFailures,
		SearchDebounce: cfg.TUI.SearchDebounce,
		Logger:         logger,
	})

	logger.Info().Str("dataset_id", cmd.dataset).Str("backend", cfg.Backend.URL).Msg("starting tui")

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
