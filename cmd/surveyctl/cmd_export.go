package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/survey-tracker/internal/app"
	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/export"
)

var (
	exportOut    string
	exportFilter domain.RespondentFilter
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export survey records as CSV",
}

var exportRespondentsCmd = &cobra.Command{
	Use:   "respondents",
	Short: "Export baseline respondents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			list, err := a.Respondents.All(ctx, exportFilter)
			if err != nil {
				return err
			}
			return writeExport(cmd, export.RespondentsFilename(time.Now()), func(w io.Writer) error {
				return export.WriteRespondentsCSV(w, list)
			})
		})
	},
}

var exportFollowupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "Export follow-up visits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			list, err := a.Followups.All(ctx, domain.FromRespondentFilter(exportFilter))
			if err != nil {
				return err
			}
			return writeExport(cmd, export.FollowupsFilename(time.Now()), func(w io.Writer) error {
				return export.WriteFollowupsCSV(w, list)
			})
		})
	},
}

func init() {
	addFilterFlags(exportCmd, &exportFilter)
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", `Output file ("-" for stdout, default: dated file name)`)

	exportCmd.AddCommand(exportRespondentsCmd)
	exportCmd.AddCommand(exportFollowupsCmd)
}

// addFilterFlags binds the dashboard filter flags to f.
func addFilterFlags(cmd *cobra.Command, f *domain.RespondentFilter) {
	cmd.PersistentFlags().StringVar(&f.District, "district", "", "Filter by district")
	cmd.PersistentFlags().StringVar(&f.Gender, "gender", "", "Filter by gender")
	cmd.PersistentFlags().StringVar(&f.Group, "group", "", "Filter by group name")
}

// writeExport writes to --out, stdout for "-", or defaultName.
func writeExport(cmd *cobra.Command, defaultName string, write func(io.Writer) error) error {
	if exportOut == "-" {
		return write(cmd.OutOrStdout())
	}
	path := exportOut
	if path == "" {
		path = defaultName
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
