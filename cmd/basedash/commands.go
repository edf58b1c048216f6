package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/basedash/internal/basename"
	"github.com/verte-zerg/basedash/internal/export"
	"github.com/verte-zerg/basedash/internal/filter"
	"github.com/verte-zerg/basedash/internal/formfill"
	"github.com/verte-zerg/basedash/internal/loader"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/session"
	"github.com/verte-zerg/basedash/internal/stats"
	"github.com/verte-zerg/basedash/internal/status"
)

const defaultRowLimit = 50

var (
	statsGroups []string
	statsStatus string

	basesNames []string

	rowLimit int

	exportOut    string
	exportStatus string
	exportBases  []string

	fillRow    int
	fillSearch string
	fillDryRun bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print overall and per-base approval statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringSliceVar(&statsGroups, "group", nil, "base group to report (repeatable, default: all)")
	cmd.Flags().StringVar(&statsStatus, "status", "all", "status filter: all, approved, not-approved, not-in-time")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := loadState(cmd)
	if err != nil {
		return err
	}
	f, err := parseStatus(statsStatus)
	if err != nil {
		return err
	}
	names, err := groupNames(st, statsGroups)
	if err != nil {
		return err
	}

	rows, err := filter.Apply(st.Canonical, filter.Status(f, st.Columns.Status))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	title := "Overall"
	if f != model.ShowAll {
		title = fmt.Sprintf("Overall (%s)", f)
	}
	if err := stats.RenderSnapshot(out, title, stats.Aggregate(rows, st.Columns.Status)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !st.HasBases() {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	groups := stats.GroupSnapshots(rows, st.Mapping, st.Columns, names)
	if err := stats.RenderGroups(out, groups); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newBasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bases",
		Short: "List normalized base names and their raw values",
		Args:  cobra.NoArgs,
		RunE:  runBasesCmd,
	}
	cmd.Flags().StringSliceVar(&basesNames, "base", nil, "restrict statistics to these bases (repeatable)")
	return cmd
}

func runBasesCmd(cmd *cobra.Command, _ []string) error {
	st, err := loadState(cmd)
	if err != nil {
		return err
	}
	if !st.HasBases() {
		return filter.ErrNoBaseColumn
	}
	names, err := groupNames(st, basesNames)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		if err := st.ApplyBaseFilter(names); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderMapping(out, st.Mapping); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "\nSelected rows: %d of %d\n\n", st.Working.Len(), st.Canonical.Len()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderGroups(out, st.Groups(st.SelectedBases)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Find rows containing a term in any column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd)
			if err != nil {
				return err
			}
			res, err := st.Search(args[0])
			logger.Debug("search", zap.String("term", args[0]), zap.Int("matches", res.Rows.Len()))
			return printResult(cmd.OutOrStdout(), "Search Results", "No records found", res, err)
		},
	}
	cmd.Flags().IntVar(&rowLimit, "limit", defaultRowLimit, "rows printed (0 prints all)")
	return cmd
}

func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine FIRST SECOND",
		Short: "Analyze two base names together",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd)
			if err != nil {
				return err
			}
			res, err := st.Combine(args[0], args[1])
			title := fmt.Sprintf("Combined Results: %s + %s", args[0], args[1])
			return printResult(cmd.OutOrStdout(), title, "No records found for these base names", res, err)
		},
	}
	cmd.Flags().IntVar(&rowLimit, "limit", defaultRowLimit, "rows printed (0 prints all)")
	return cmd
}

func printResult(w io.Writer, title, empty string, res session.Result, err error) error {
	if err != nil {
		return err
	}
	if res.Rows.Len() == 0 {
		_, werr := fmt.Fprintln(w, empty)
		return werr
	}
	if _, err := fmt.Fprintf(w, "Found %d result(s)\n\n", res.Rows.Len()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSnapshot(w, title, res.Stats); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRows(w, res.Rows, rowLimit); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List loadable files in the data folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			names, err := loader.New(s.cfg.DataDir, logger).Files()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				logErrf("No data files found in %s\n", s.cfg.DataDir)
				return nil
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current view, mapping and group statistics to SQLite",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "SQLite file to write")
	cmd.Flags().StringVar(&exportStatus, "status", "all", "status filter: all, approved, not-approved, not-in-time")
	cmd.Flags().StringSliceVar(&exportBases, "base", nil, "restrict rows to these bases (repeatable)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) (err error) {
	if exportOut == "" {
		return errors.New("--out must not be empty")
	}
	st, err := loadState(cmd)
	if err != nil {
		return err
	}
	f, err := parseStatus(exportStatus)
	if err != nil {
		return err
	}
	names, err := groupNames(st, exportBases)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		if err := st.ApplyBaseFilter(names); err != nil {
			return err
		}
	}
	st.SetStatusFilter(f)

	ex, err := export.Open(exportOut)
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if cerr := ex.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export: %w", cerr)
		}
	}()

	sum, err := ex.Write(cmd.Context(), st.View(""), st.Mapping, st.Groups(st.SelectedBases))
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("export written", zap.String("path", exportOut), zap.Int("records", sum.Records))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records, %d base values and %d groups to %s\n",
		sum.Records, sum.Members, sum.Groups, exportOut)
	return err
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the payment test form from one row",
		Args:  cobra.NoArgs,
		RunE:  runFillCmd,
	}
	cmd.Flags().IntVar(&fillRow, "row", 1, "row number in the (searched) data, starting at 1")
	cmd.Flags().StringVar(&fillSearch, "search", "", "narrow rows by a search term first")
	cmd.Flags().BoolVar(&fillDryRun, "dry-run", false, "print the fields instead of opening a browser")
	return cmd
}

func runFillCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := stateFor(s.cfg)
	if err != nil {
		return err
	}
	filler := newFiller(s.cfg, fillDryRun, cmd.OutOrStdout())
	if filler == nil {
		return errors.New("no form URL configured: pass --url or --dry-run")
	}
	if formfill.CardColumn(st.Canonical) == "" {
		return errors.New("could not find a 'Number' or 'Card Number' column in the data")
	}

	fields, err := formfill.Resolve(st.View(fillSearch), fillRow-1, s.cfg.HolderName)
	if err != nil {
		return err
	}
	if err := filler.Fill(cmd.Context(), fields); err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}
	if !fillDryRun {
		logErrf("Form filled from row %d\n", fillRow)
	}
	return nil
}

func loadState(cmd *cobra.Command) (*session.State, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return stateFor(s.cfg)
}

func stateFor(cfg model.Config) (*session.State, error) {
	if cfg.File == "" {
		return nil, errors.New("--file must not be empty")
	}
	ld := loader.New(cfg.DataDir, logger)
	path := ld.Resolve(cfg.File)
	ds, err := ld.Load(path, cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return session.Load(ds, path), nil
}

func parseStatus(s string) (model.StatusFilter, error) {
	f, ok := status.ParseFilter(s)
	if !ok {
		return model.ShowAll, fmt.Errorf("--status %q is not one of all, approved, not-approved, not-in-time", s)
	}
	return f, nil
}

// groupNames normalizes user-typed base names and rejects unknown ones.
func groupNames(st *session.State, raw []string) ([]string, error) {
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		name, ok := basename.Normalize(r)
		if !ok || !st.Mapping.Has(name) {
			return nil, fmt.Errorf("unknown base %q", r)
		}
		names = append(names, name)
	}
	return names, nil
}
