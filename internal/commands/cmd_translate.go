package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lingo/internal/core/dataset"
	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/notify"
	"github.com/colonyops/lingo/internal/core/selection"
	"github.com/colonyops/lingo/internal/printer"
	"github.com/colonyops/lingo/pkg/logutils"
)

// maxPrintedCells bounds the result listing after a completed job.
const maxPrintedCells = 20

type TranslateCmd struct {
	flags   *Flags
	dataset string
	rows    string
	cols    []string
	cells   []string
	noWait  bool
}

// NewTranslateCmd creates a new translate command.
func NewTranslateCmd(flags *Flags) *TranslateCmd {
	return &TranslateCmd{flags: flags}
}

// Register adds the translate command to the application.
func (cmd *TranslateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "translate",
		Usage:     "Submit a translation job and follow its progress",
		UsageText: "lingo translate --dataset <id> [--rows 0,2-5] [--cols vi] [--cell 3:vi]",
		Description: `Builds a selection from rows, columns and single cells, resolves it to
target rows and columns, and submits one job.

A column given without rows targets every row of the dataset. Each --cell
adds its row and its column to the targets.`,
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
				Name:        "rows",
				Usage:       "row indices and ranges, e.g. 0,2-5",
				Destination: &cmd.rows,
			},
			&cli.StringSliceFlag{
				Name:        "cols",
				Usage:       "column keys to translate",
				Destination: &cmd.cols,
			},
			&cli.StringSliceFlag{
				Name:        "cell",
				Usage:       "single cell as row:column, e.g. 3:vi",
				Destination: &cmd.cells,
			},
			&cli.BoolFlag{
				Name:        "no-wait",
				Usage:       "print the task id and return without polling",
				Destination: &cmd.noWait,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *TranslateCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg := cmd.flags.Config
	client := cmd.flags.Client()

	view := dataset.NewView()
	if err := view.Load(ctx, client, cmd.dataset, cfg.Backend.RowLimit); err != nil {
		return fmt.Errorf("load dataset %s: %w", cmd.dataset, err)
	}

	sel, err := cmd.selection(view)
	if err != nil {
		return err
	}

	targets, err := sel.Targets()
	if err != nil {
		return err
	}

	ctrl := job.NewController(cfg.Poll.MaxFailures, logutils.Component(log.Logger, "job"))
	req, err := ctrl.BeginSubmit(cmd.dataset, targets)
	if err != nil {
		return err
	}

	taskID, err := client.CreateJob(ctx, req)
	if err != nil {
		ctrl.SubmitFailed(err)
		return fmt.Errorf("start translation: %w", err)
	}
	gen, _ := ctrl.SubmitSucceeded(taskID)

	p.Infof("Translation started: task %s, %d rows x %d columns", taskID, len(targets.Rows), len(targets.Cols))
	if cmd.noWait {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w := job.NewWatcher(client, ctrl)
	last := -1
	w.OnTick = func(out job.PollOutcome, j job.Job) {
		if j.Total > 0 && j.Processed != last && !out.Done {
			last = j.Processed
			p.Printf("  %s %d/%d (%.0f%%)", j.Status, j.Processed, j.Total, j.Percent())
		}
		if out.Notice != nil {
			printNotice(p, *out.Notice)
		}
	}
	w.OnRefresh = func(ctx context.Context) {
		if err := view.Load(ctx, client, cmd.dataset, cfg.Backend.RowLimit); err != nil {
			log.Debug().Err(err).Msg("dataset refresh failed")
			return
		}
		sel.Prune()
	}

	final, err := w.Watch(ctx, gen)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.Warnf("Stopped following task %s; it keeps running on the server", taskID)
			return nil
		}
		return err
	}

	if final.Status != job.StatusCompleted {
		return cli.Exit("", 1)
	}

	printCells(p, view.Snapshot(), targets)
	return nil
}

// selection builds a selection from the command flags, checking every
// reference against the loaded dataset. Repeated values select once.
func (cmd *TranslateCmd) selection(view *dataset.View) (*selection.Model, error) {
	sel := selection.New(view)

	rows, err := parseRows(cmd.rows)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if !view.HasRow(r) {
			return nil, fmt.Errorf("row %d is out of range (dataset has %d rows)", r, view.Snapshot().Len())
		}
		sel.SelectRow(r)
	}

	for _, k := range cmd.cols {
		if !view.HasColumn(k) {
			return nil, unknownColumn(k, view)
		}
		sel.SelectCol(k)
	}

	for _, raw := range cmd.cells {
		c, err := parseCell(raw)
		if err != nil {
			return nil, err
		}
		if !view.HasRow(c.Row) {
			return nil, fmt.Errorf("cell %q: row %d is out of range", raw, c.Row)
		}
		if !view.HasColumn(c.Col) {
			return nil, unknownColumn(c.Col, view)
		}
		sel.SelectCell(c.Row, c.Col)
	}

	return sel, nil
}

func unknownColumn(k string, view *dataset.View) error {
	return fmt.Errorf("unknown column %q (available: %s)", k, strings.Join(view.ColumnKeys(), ", "))
}

// parseRows parses "0,2-5" into ascending-as-written indices. Duplicates are
// kept once.
func parseRows(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	seen := make(map[int]struct{})
	var rows []int
	add := func(i int) {
		if _, ok := seen[i]; !ok {
			seen[i] = struct{}{}
			rows = append(rows, i)
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid row %q", part)
		}
		if !isRange {
			add(start)
			continue
		}

		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil || end < start {
			return nil, fmt.Errorf("invalid row range %q", part)
		}
		for i := start; i <= end; i++ {
			add(i)
		}
	}
	return rows, nil
}

// parseCell parses "row:column".
func parseCell(s string) (selection.Cell, error) {
	row, col, ok := strings.Cut(s, ":")
	if !ok || col == "" {
		return selection.Cell{}, fmt.Errorf("invalid cell %q, want row:column", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil || i < 0 {
		return selection.Cell{}, fmt.Errorf("invalid cell %q: bad row", s)
	}
	return selection.Cell{Row: i, Col: strings.TrimSpace(col)}, nil
}

func printNotice(p *printer.Printer, n notify.Notification) {
	switch n.Level {
	case notify.LevelError:
		p.Errorf("%s", n.Message)
	case notify.LevelWarning:
		p.Warnf("%s", n.Message)
	default:
		p.Successf("%s", n.Message)
	}
}

func printCells(p *printer.Printer, snap dataset.Snapshot, targets selection.Targets) {
	printed := 0
	for _, r := range targets.Rows {
		if r < 0 || r >= len(snap.Rows) {
			continue
		}
		row := snap.Rows[r]
		for _, k := range targets.Cols {
			if printed == maxPrintedCells {
				p.Printf("  ... %d more", targets.Len()-printed)
				return
			}
			p.Printf("  %d:%s  %s", r, k, row.Value(k))
			printed++
		}
	}
}
