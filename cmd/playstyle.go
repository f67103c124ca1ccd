package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/report"
)

var playstyleJSON bool

var playstyleCmd = &cobra.Command{
	Use:   "playstyle <puuid>",
	Short: "Signature playstyle: six axes, efficiency, tempo, consistency and champion pool",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaystyle,
}

func init() {
	playstyleCmd.Flags().BoolVar(&playstyleJSON, "json", false, "print the response as JSON")
}

func runPlaystyle(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.analyzer.Playstyle(cmd.Context(), args[0])
	if playstyleJSON {
		return printJSON(resp)
	}
	if resp.Data == nil {
		report.PrintStatus(os.Stdout, args[0], resp.Status)
		return nil
	}
	report.PrintPlaystyle(os.Stdout, *resp.Data)
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
