package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/runner"
)

var (
	reportSite   string
	reportOut    string
	reportTables []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute every report for one site",
	Long: `Runs one computation pass for the selected site and renders the tables
to the terminal. With --out, every table is also written as CSV.

Example:
  hdss-monitor report --site central --out ./exports`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportSite, "site", "s", "", "Survey site (required)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Directory to write CSV exports to")
	reportCmd.Flags().StringSliceVarP(&reportTables, "table", "t", nil, "Only render these tables")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := checkSite(reportSite); err != nil {
		return err
	}

	ctx := context.Background()
	driver, err := connect(ctx)
	if err != nil {
		return err
	}
	defer driver.Close()

	p, err := runner.New(driver, cfg, logger)
	if err != nil {
		return err
	}
	r, err := p.Run(ctx, reportSite)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range selectTables(r, reportTables) {
		fmt.Fprint(out, report.Render(t))
	}
	for _, f := range r.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", f.View, f.Err)
	}

	if reportOut != "" {
		paths, err := report.ExportDir(reportOut, r)
		if err != nil {
			return err
		}
		logger.Info("exported tables", zap.String("dir", reportOut), zap.Int("files", len(paths)))
	}
	return nil
}

func selectTables(r *report.Report, names []string) []*report.Table {
	if len(names) == 0 {
		return r.Tables
	}
	out := make([]*report.Table, 0, len(names))
	for _, name := range names {
		if t, ok := r.Table(name); ok {
			out = append(out, t)
		}
	}
	return out
}
