package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/survey-tracker/internal/app"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/export"
)

var reportFilter domain.RespondentFilter

var reportCmd = &cobra.Command{
	Use:   "report <kind>",
	Short: "Render a markdown report",
	Long: `Render a markdown report to stdout.

Kinds: comprehensive, demographics, business, technology, geographic.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd, &reportFilter)
}

func runReport(cmd *cobra.Command, args []string) error {
	kind, err := export.ParseReportKind(args[0])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		baseline, err := a.Dashboard.Baseline(ctx, reportFilter)
		if err != nil {
			return err
		}
		data := export.ReportData{GeneratedAt: time.Now(), Filter: reportFilter, Baseline: *baseline}
		if kind == export.ReportComprehensive {
			if data.Followups, err = a.Dashboard.Followups(ctx, reportFilter); err != nil {
				return err
			}
		}
		out, err := a.Reports.Render(kind, data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	})
}
