package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce  bool
	dropPlayer string
)

// dropCmd deletes the database file, or one player's rows.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the local database, or one player's data",
	Long: `Permanently delete the SQLite database. All cached matches and snapshots
will be lost; re-run 'fetch' or 'import' afterwards to rebuild.

With --player, only that player's profile, matches and snapshots are removed.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropPlayer, "player", "", "only delete this PUUID's data")
}

func runDrop(cmd *cobra.Command, args []string) error {
	path := cfg.Storage.Path
	if !dropForce {
		if dropPlayer != "" {
			fmt.Fprintf(os.Stderr, "This will permanently delete every row for %s in %s\n", dropPlayer, path)
		} else {
			fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropPlayer != "" {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.DropPlayer(cmd.Context(), dropPlayer)
		if err != nil {
			return fmt.Errorf("drop player: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Deleted %d rows for %s\n", n, dropPlayer)
		return nil
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}
