package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/remote"
	"github.com/legendscope/legendscope/internal/storage"
)

var (
	importRiotID string
	importRegion string
)

var importCmd = &cobra.Command{
	Use:   "import <puuid> <matches.json>",
	Short: "Load a player's matches from a JSON file into the local cache",
	Long: `Read a match list (a bare array, {"matches": [...]}, or a Lambda
response whose "body" holds either) and store up to the 20 most recent
matches for the player. The profile is marked READY, or NO_MATCHES when the
file holds no match objects.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importRiotID, "riot-id", "", "Riot ID to store with the profile (Name#TAG)")
	importCmd.Flags().StringVar(&importRegion, "region", "", "region code (e.g. na1, euw1)")
}

func runImport(cmd *cobra.Command, args []string) error {
	puuid, path := args[0], args[1]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	records, err := remote.DecodeMatches(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storeWindow(cmd, db, storage.Profile{PUUID: puuid, RiotID: importRiotID, Region: importRegion}, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d matches for %s\n", n, puuid)
	return nil
}

// storeWindow replaces the player's cached matches and sets the profile
// status from the result. It returns the number of matches stored.
func storeWindow(cmd *cobra.Command, db *storage.DB, p storage.Profile, records []model.MatchRecord) (int, error) {
	ctx := cmd.Context()
	if len(records) > storage.MaxWindow {
		records = records[:storage.MaxWindow]
	}
	p.Status = model.StatusFetching
	if err := db.UpsertProfile(ctx, p); err != nil {
		return 0, err
	}
	if err := db.ReplaceMatches(ctx, p.PUUID, records); err != nil {
		_ = db.SetStatus(ctx, p.PUUID, model.StatusFailed)
		return 0, err
	}
	status := model.StatusReady
	if len(records) == 0 {
		status = model.StatusNoMatches
	}
	if err := db.SetStatus(ctx, p.PUUID, status); err != nil {
		return 0, err
	}
	return len(records), nil
}
