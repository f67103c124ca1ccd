package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/normalize"
	"github.com/legendscope/legendscope/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the configured sources. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	cGreeting.Println("legendscope shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("legendscope")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(ctx, a)
		case "snapshots":
			var puuid string
			if len(args) > 0 {
				puuid = args[0]
			}
			snaps, err := a.db.ListSnapshots(ctx, puuid)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintSnapshots(os.Stdout, snaps)
		case "playstyle", "faultlines", "battles", "trend":
			if len(args) == 0 {
				cError.Fprintf(os.Stderr, "usage: %s <puuid>\n", name)
				continue
			}
			shellAnalysis(ctx, a, name, args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list cached players"},
		{"playstyle <puuid>", "signature playstyle summary"},
		{"faultlines <puuid>", "faultlines indices with insights"},
		{"battles <puuid>", "battle history summary"},
		{"trend <puuid>", "per-match trend"},
		{"snapshots [puuid]", "list stored snapshots"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(ctx context.Context, a *app) {
	profiles, err := a.db.ListProfiles(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintProfiles(os.Stdout, profiles)
}

func shellAnalysis(ctx context.Context, a *app, kind, playerID string) {
	switch kind {
	case "playstyle":
		resp := a.analyzer.Playstyle(ctx, playerID)
		if resp.Data == nil {
			report.PrintStatus(os.Stdout, playerID, resp.Status)
			return
		}
		report.PrintPlaystyle(os.Stdout, *resp.Data)
	case "faultlines":
		resp := a.analyzer.Faultlines(ctx, playerID)
		if resp.Data == nil {
			report.PrintStatus(os.Stdout, playerID, resp.Status)
			return
		}
		report.PrintFaultlines(os.Stdout, *resp.Data)
	case "battles":
		resp := a.analyzer.Battles(ctx, playerID)
		if resp.Data == nil {
			report.PrintStatus(os.Stdout, playerID, resp.Status)
			return
		}
		report.PrintBattles(os.Stdout, *resp.Data)
	case "trend":
		records, err := a.matches.Matches(ctx, playerID)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		records = normalize.FilterMinDuration(records)
		if len(records) == 0 {
			cMuted.Println("no matches found")
			return
		}
		report.PrintTrend(os.Stdout, normalize.Normalizer{}.DeriveAll(records))
	}
}
