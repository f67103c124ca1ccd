package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/report"
)

var faultlinesJSON bool

var faultlinesCmd = &cobra.Command{
	Use:   "faultlines <puuid>",
	Short: "Eight strength/weakness indices with coaching insights",
	Long: `Compute the faultlines indices (combat efficiency, objective reliability,
survival discipline, vision and awareness, economy utilization, role
stability, momentum, composure) over the player's recent matches. Insight text
comes from the configured text-generation backends, falling back to fixed
wording when none answers.`,
	Args: cobra.ExactArgs(1),
	RunE: runFaultlines,
}

func init() {
	faultlinesCmd.Flags().BoolVar(&faultlinesJSON, "json", false, "print the response as JSON")
}

func runFaultlines(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.analyzer.Faultlines(cmd.Context(), args[0])
	if faultlinesJSON {
		return printJSON(resp)
	}
	if resp.Data == nil {
		report.PrintStatus(os.Stdout, args[0], resp.Status)
		return nil
	}
	report.PrintFaultlines(os.Stdout, *resp.Data)
	return nil
}
