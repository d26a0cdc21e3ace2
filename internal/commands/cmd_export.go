package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lingo/internal/printer"
)

type ExportCmd struct {
	flags   *Flags
	dataset string
	output  string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Download a dataset as CSV",
		UsageText: "lingo export --dataset <id> [-o file.csv]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dataset",
				Aliases:     []string{"d"},
				Usage:       "dataset id",
				Sources:     cli.EnvVars("LINGO_DATASET"),
				Required:    true,
				Destination: &cmd.dataset,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file, - for stdout (defaults to <dataset>.csv)",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	path := cmd.output
	if path == "" {
		path = cmd.dataset + ".csv"
	}

	client := cmd.flags.Client()

	if path == "-" {
		_, err := client.Export(ctx, cmd.dataset, c.Root().Writer)
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".lingo-export-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	n, err := client.Export(ctx, cmd.dataset, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", cmd.dataset, err)
	}

	// Only a complete download replaces the target file.
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printer.Ctx(ctx).Successf("Exported %s to %s (%s)", cmd.dataset, path, humanize.Bytes(uint64(n)))
	return nil
}

