package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/baseline"
	"github.com/legendscope/legendscope/internal/report"
)

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Show the population baselines and the axis weights scored against them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := baseline.Validate(baseline.Default, baseline.Axes); err != nil {
			return fmt.Errorf("baseline table: %w", err)
		}
		report.PrintBaselines(os.Stdout, baseline.Default, baseline.Axes)
		return nil
	},
}
