package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ignite/survey-tracker/internal/questionnaire"
)

var stepsAttended bool

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Print the follow-up questionnaire step order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printSteps(cmd.OutOrStdout(), questionnaire.BuildSteps(stepsAttended))
		return nil
	},
}

func init() {
	stepsCmd.Flags().BoolVar(&stepsAttended, "attended", true, "Whether the respondent attended training")
}

func printSteps(w io.Writer, steps []questionnaire.Step) {
	for i, s := range steps {
		fmt.Fprintf(w, "%2d. %-20s %-13s %-6s %s\n", i+1, s.ID, s.Kind, s.Advance, s.Prompt)
		for _, o := range s.Options {
			fmt.Fprintf(w, "      %s = %s\n", o.Value, o.Label)
		}
	}
}
