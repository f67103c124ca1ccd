package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/textgen"
)

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <puuid> <question>",
	Short: "Ask a question about a player's analysis with AI (requires ANTHROPIC_API_KEY)",
	Long: `Run the playstyle and faultlines analyses for the player and stream an
answer to the question that is grounded only in that data.

Example:
  legendscope analyze <puuid> "Why do I lose games where I get first blood?"`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

// analysisContext is the data document the model answers from.
type analysisContext struct {
	Player     string                   `json:"player"`
	Playstyle  *model.PlaystyleSummary  `json:"playstyle"`
	Faultlines *model.FaultlinesSummary `json:"faultlines"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	playerID, question := args[0], args[1]

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.TextGen.AnthropicAPIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.TextGen.AnthropicModel
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	ps := a.analyzer.Playstyle(ctx, playerID)
	if ps.Data == nil {
		return fmt.Errorf("playstyle analysis for %s is %s", playerID, ps.Status)
	}
	fl := a.analyzer.Faultlines(ctx, playerID)

	data, err := json.Marshal(analysisContext{Player: playerID, Playstyle: ps.Data, Faultlines: fl.Data})
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	fmt.Fprintln(os.Stdout, "\n--- AI Analysis -------------------------------------")
	err = textgen.NewAnthropic(apiKey, modelID).Ask(ctx, os.Stdout, string(data), question)
	fmt.Fprintln(os.Stdout, "\n-----------------------------------------------------")
	return err
}
