package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lingo/internal/devserver"
	"github.com/colonyops/lingo/internal/printer"
	"github.com/colonyops/lingo/pkg/logutils"
)

type DevServerCmd struct {
	flags     *Flags
	addr      string
	rows      int
	itemDelay time.Duration
	datasetID string
}

// NewDevServerCmd creates a new dev-server command.
func NewDevServerCmd(flags *Flags) *DevServerCmd {
	return &DevServerCmd{flags: flags}
}

// Register adds the dev-server command to the application.
func (cmd *DevServerCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dev-server",
		Usage:     "Run an in-memory translation backend",
		UsageText: "lingo dev-server [--addr 127.0.0.1:8000] [--rows 200]",
		Description: `Serves the translation API from memory with one seeded dataset. Cells
are "translated" by tagging the source text, one cell per item delay, so
pause, resume and undo can be tried without a real server.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to dev_server.addr)",
				Destination: &cmd.addr,
			},
			&cli.IntFlag{
				Name:        "rows",
				Usage:       "rows in the seeded dataset (defaults to dev_server.rows)",
				Destination: &cmd.rows,
			},
			&cli.DurationFlag{
				Name:        "item-delay",
				Usage:       "simulated time per cell (defaults to dev_server.item_delay)",
				Value:       -1,
				Destination: &cmd.itemDelay,
			},
			&cli.StringFlag{
				Name:        "dataset",
				Aliases:     []string{"d"},
				Usage:       "id of the seeded dataset (defaults to dev_server.dataset_id)",
				Destination: &cmd.datasetID,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DevServerCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg := cmd.flags.Config.DevServer

	addr := valueOr(cmd.addr, cfg.Addr)
	datasetID := valueOr(cmd.datasetID, cfg.DatasetID)
	rows := cfg.Rows
	if cmd.rows > 0 {
		rows = cmd.rows
	}
	delay := cfg.ItemDelay
	if cmd.itemDelay >= 0 {
		delay = cmd.itemDelay
	}

	stopProfiler, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stopProfiler()

	store := devserver.NewStore()
	store.Seed(datasetID, rows)

	srv := devserver.New(store, devserver.Options{ItemDelay: delay}, logutils.Component(log.Logger, "devserver"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	p.Successf("Dev server on http://%s with dataset %q (%d rows)", addr, datasetID, rows)

	select {
	case err := <-errCh:
		srv.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	p.Infof("Dev server stopped")
	return nil
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
