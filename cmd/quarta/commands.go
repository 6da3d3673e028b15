package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/insights"
	"github.com/jask/quarta/internal/logger"
	"github.com/jask/quarta/internal/testdata"
	"github.com/jask/quarta/internal/tui"
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// splitID pulls a leading positional ID so flags may follow it.
func splitID(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

func (a *app) importCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("import: at least one FILE is required")
	}
	res, err := a.sheets.ImportFiles(logger.WithContext(ctx, a.log), args)
	if err != nil {
		return err
	}
	for _, s := range res.Sheets {
		fmt.Fprintf(a.out, "%s  %s  %d rows, %d skipped\n", s.Sheet.ID, s.Sheet.Name, s.Report.RowsParsed, s.Report.RowsSkipped)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(a.errOut, "warn: %v\n", e)
	}
	fmt.Fprintf(a.out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
	if res.Imported == 0 {
		return errors.New("import: no files imported")
	}
	return nil
}

func (a *app) listCmd(ctx context.Context) error {
	list, err := a.sheets.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no sheets yet, try: quarta import FILE.csv")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tLAST OPENED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Size, s.LastOpenedAt.Local().Format(a.cfg.UI.DateFormat))
	}
	return tw.Flush()
}

func (a *app) openCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("open: ID is required")
	}
	view := tui.New(ctx, a.cfg, a.sheets, args[0])
	defer view.Close()
	if _, err := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run view: %w", err)
	}
	return nil
}

type reportOutput struct {
	Sheet struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		CreatedAt    time.Time `json:"created_at"`
		LastOpenedAt time.Time `json:"last_opened_at"`
	} `json:"sheet"`
	Parse    *dataframe.ParseReport `json:"parse"`
	Insights insights.Snapshot      `json:"insights"`
}

func (a *app) reportCmd(ctx context.Context, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("report", a.errOut)
	query := fs.String("q", "", "debtor search query")
	minMonth := fs.String("min", "", "first month (YYYY-MM)")
	maxMonth := fs.String("max", "", "last month (YYYY-MM)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return errors.New("report: ID is required")
	}

	sess, err := a.sheets.Open(ctx, id)
	if err != nil {
		return err
	}
	defer sess.Close()

	var out reportOutput
	out.Sheet.ID = sess.Sheet.ID
	out.Sheet.Name = sess.Sheet.Name
	out.Sheet.CreatedAt = sess.Sheet.CreatedAt
	out.Sheet.LastOpenedAt = sess.Sheet.LastOpenedAt
	out.Parse = sess.Report
	out.Insights = insights.Build(sess.Frame, insights.Query{Debtors: *query, MinMonth: *minMonth, MaxMonth: *maxMonth})

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (a *app) renameCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("rename: ID and NAME are required")
	}
	if err := a.sheets.Rename(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "renamed")
	return nil
}

func (a *app) deleteCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("delete: ID is required")
	}
	if err := a.sheets.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}

func (a *app) pruneCmd(ctx context.Context, args []string) error {
	fs := newFlagSet("prune", a.errOut)
	olderThan := fs.String("older-than", "", "age such as 720h or 30d")
	if err := fs.Parse(args); err != nil {
		return err
	}
	age, err := parseAge(*olderThan)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	n, err := a.maint.Prune(ctx, database.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "pruned %d sheets\n", n)
	return nil
}

// parseAge accepts time.ParseDuration input plus a whole-day "Nd" form.
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("-older-than is required")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return d, nil
}

func (a *app) resetCmd(ctx context.Context, args []string) error {
	fs := newFlagSet("reset", a.errOut)
	yes := fs.Bool("yes", false, "confirm deleting every sheet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("reset: pass -yes to delete every sheet")
	}
	if err := a.maint.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "all sheets deleted")
	return nil
}

func (a *app) sampleCmd(ctx context.Context, args []string) error {
	fs := newFlagSet("sample", a.errOut)
	months := fs.Int("months", 6, "months of data")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	name := fs.String("name", "Sample sheet", "sheet name")
	toStdout := fs.Bool("print", false, "write the CSV to stdout instead of storing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := testdata.Options{Months: *months, Seed: *seed}
	if *toStdout {
		return testdata.Generate(a.out, opts)
	}
	sheet, report, err := testdata.Seed(ctx, a.sheets, *name, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s  %d rows\n", sheet.ID, sheet.Name, report.RowsParsed)
	return nil
}
