package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/survey-tracker/internal/app"
	"github.com/ignite/survey-tracker/internal/config"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
)

var (
	configPath string
	timeout    time.Duration
)

// rootCmd is the survey tracker admin CLI.
var rootCmd = &cobra.Command{
	Use:   "surveyctl",
	Short: "Administer the survey tracker",
	Long: `Administrative commands for the coffee and tea value-chain survey tracker.

Available subcommands:
  import - Load respondents from a CSV file or s3://bucket/key
  export - Write respondents or follow-ups as CSV
  report - Render a markdown report
  steps  - Print the follow-up questionnaire step order`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Config file (env vars override)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(stepsCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp loads config and wires the services. Callers must Close the app.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app.ConfigureLogging(cfg.Log)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return a, nil
}

// withApp runs fn against a wired app under the --timeout deadline.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
