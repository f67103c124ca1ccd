package cmd

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/analyzer"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/report"
	"github.com/legendscope/legendscope/internal/storage"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <snapshot-id-prefix>",
	Short: "Render a stored analysis snapshot by ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored JSON payload")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, raw, err := db.GetSnapshot(cmd.Context(), prefix)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No snapshot found with ID prefix %q\n", prefix)
		return nil
	}
	if err != nil {
		return fmt.Errorf("query snapshot: %w", err)
	}

	if showJSON {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		return printJSON(v)
	}

	fmt.Fprintf(os.Stdout, "\nSnapshot %s  |  player %s  |  %s  |  %s\n", snap.ID, snap.PUUID, snap.Kind, snap.CreatedAt)
	switch snap.Kind {
	case analyzer.KindPlaystyle:
		var s model.PlaystyleSummary
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode playstyle: %w", err)
		}
		report.PrintPlaystyle(os.Stdout, s)
	case analyzer.KindFaultlines:
		var f model.FaultlinesSummary
		if err := json.Unmarshal(raw, &f); err != nil {
			return fmt.Errorf("decode faultlines: %w", err)
		}
		report.PrintFaultlines(os.Stdout, f)
	case analyzer.KindBattles:
		var b model.BattleSummary
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("decode battles: %w", err)
		}
		report.PrintBattles(os.Stdout, b)
	default:
		return fmt.Errorf("unknown snapshot kind %q", snap.Kind)
	}
	return nil
}
