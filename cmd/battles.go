package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/report"
)

var battlesJSON bool

var battlesCmd = &cobra.Command{
	Use:   "battles <puuid>",
	Short: "Battle history: summary cards, roles, champions, risk profile and narrative",
	Args:  cobra.ExactArgs(1),
	RunE:  runBattles,
}

func init() {
	battlesCmd.Flags().BoolVar(&battlesJSON, "json", false, "print the response as JSON")
}

func runBattles(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.analyzer.Battles(cmd.Context(), args[0])
	if battlesJSON {
		return printJSON(resp)
	}
	if resp.Data == nil {
		report.PrintStatus(os.Stdout, args[0], resp.Status)
		return nil
	}
	report.PrintBattles(os.Stdout, *resp.Data)
	return nil
}
