package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached players",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	profiles, err := db.ListProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	report.PrintProfiles(os.Stdout, profiles)
	return nil
}
