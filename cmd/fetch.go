package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/remote"
	"github.com/legendscope/legendscope/internal/storage"
)

var fetchRegion string

// fetchCmd pulls a player's profile and match window from the Lambdas into
// the local cache.
var fetchCmd = &cobra.Command{
	Use:   "fetch <riot-id|puuid>",
	Short: "Fetch a player's recent matches from the Lambda API into the local cache",
	Long: `Resolve a player by Riot ID (Name#TAG) or PUUID through the profile
Lambda, then download the stored match window and cache it locally so the
analysis commands can run offline.

A profile whose match history is not READY yet is cached with its current
status and no matches.

Examples:
  legendscope fetch "cant type#1998" --region na1
  legendscope fetch PcymtY31rEewJXMEZRv4HpbAVTPN...`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchRegion, "region", "", "region code (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := newRemote(slog.Default())
	if client == nil {
		return fmt.Errorf("fetch needs the profile and matches Lambda URLs (APP_LAMBDA_PROFILE_URL, APP_LAMBDA_MATCHES_URL)")
	}
	defer client.Wait()

	req := remote.LookupRequest{Region: fetchRegion}
	if strings.Contains(args[0], "#") {
		req.RiotID = args[0]
	} else {
		req.PUUID = args[0]
	}
	p, err := client.Lookup(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", args[0], err)
	}
	fmt.Printf("Player: %s  puuid=%s  region=%s  level=%d\n", p.RiotID, p.PUUID, p.Region, p.Level)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	profile := storage.Profile{PUUID: p.PUUID, RiotID: p.RiotID, Region: p.Region}
	status := model.ParseStatus(p.LastMatches)
	if status != model.StatusReady {
		profile.Status = status
		if err := db.UpsertProfile(cmd.Context(), profile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Match history is %s; nothing to download yet.\n", status)
		return nil
	}

	records, err := client.Matches(cmd.Context(), p.PUUID)
	if err != nil {
		return fmt.Errorf("fetch matches: %w", err)
	}
	n, err := storeWindow(cmd, db, profile, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Cached %d matches for %s\n", n, p.PUUID)
	return nil
}
