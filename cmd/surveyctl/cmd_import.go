package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/survey-tracker/internal/app"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

var importJSON bool

var importCmd = &cobra.Command{
	Use:   "import <path|s3://bucket/key>",
	Short: "Import respondents from a CSV export",
	Long: `Import baseline respondents from a survey CSV.

The source is a local path or an s3://bucket/key URI (requires the storage
section). Only one import runs at a time across all instances.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the result as JSON")
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		body, err := a.Opener.Open(ctx, source)
		if err != nil {
			return err
		}
		defer body.Close()

		res, err := a.Importer.Import(ctx, body, source)
		if err != nil {
			return err
		}
		logger.Info("[surveyctl] import finished", "source", source, "imported", res.Imported, "skipped", res.Skipped)

		out := cmd.OutOrStdout()
		if importJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintf(out, "Imported %d of %d rows from %s (%d skipped) in %s\n",
			res.Imported, res.Total, source, res.Skipped, res.Duration)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  line %d: %s\n", e.Line, e.Message)
		}
		if len(res.Unmapped) > 0 {
			fmt.Fprintf(out, "Unmapped columns: %v\n", res.Unmapped)
		}
		return nil
	})
}
