// Package textgen implements text-generation backends: the Anthropic Messages
// API and a Lambda function URL fronting hosted models.
package textgen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/legendscope/legendscope/internal/insight"
)

const systemPrompt = "You are an expert League of Legends analyst providing personalized player insights."

// BuildPrompt renders the analyst prompt around a context block and a task.
func BuildPrompt(context, task string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nContext:\n")
	b.WriteString(context)
	b.WriteString("\n\nTask:\n")
	b.WriteString(task)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Keep response under 2 sentences\n")
	b.WriteString("- Be specific and actionable\n")
	b.WriteString("- Use League of Legends terminology\n")
	b.WriteString("- Focus on player improvement\n")
	b.WriteString("\nProvide your insight:")
	return b.String()
}

// Anthropic generates text with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic returns a backend for the given model. Retries are disabled so
// a chain attempt is exactly one request.
func NewAnthropic(apiKey, modelID string, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  modelID,
	}
}

// Generate implements insight.Generator.
func (a *Anthropic) Generate(ctx context.Context, req insight.Request) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req.Context, req.Instruction))),
		},
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return "", fmt.Errorf("anthropic: authentication failed: %w", err)
		}
		return "", fmt.Errorf("anthropic: %w", err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", insight.ErrEmptyText
	}
	return text, nil
}

// AskSystemPrompt grounds free-form questions in the supplied analysis data.
const AskSystemPrompt = `You are a League of Legends performance analyst. You are given the JSON output
of a playstyle and faultlines analysis of one player's recent ranked matches, and
a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually change.

Glossary:
- Axis scores (0-100): 50 is the ranked-population average on that axis.
- Faultlines indices (0-100): higher is stronger; below 50 is a weakness.
- KP: kill participation. DMG share: share of team damage to champions.
- CV: coefficient of variation across the window. Lower is steadier.
- Tempo phases: early < 14 min, mid 14-25 min, late after.`

// Ask streams an answer to question, grounded in data, to w.
func (a *Anthropic) Ask(ctx context.Context, w io.Writer, data, question string) error {
	stream := a.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: AskSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", data, question))),
		},
	})
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("anthropic: authentication failed, check your API key: %w", err)
		}
		return fmt.Errorf("anthropic stream: %w", err)
	}
	return nil
}

// Lambda posts prompts to a function URL that answers {"reply": "..."}.
type Lambda struct {
	url   string
	model string
	http  *http.Client
}

// NewLambda returns a backend calling url with the given model name.
// The context passed to Generate bounds each call; timeout is a hard ceiling.
func NewLambda(url, modelName string, timeout time.Duration) *Lambda {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Lambda{
		url:   url,
		model: modelName,
		http:  &http.Client{Timeout: timeout},
	}
}

type lambdaRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// Generate implements insight.Generator.
func (l *Lambda) Generate(ctx context.Context, req insight.Request) (string, error) {
	body, err := json.Marshal(lambdaRequest{
		Prompt:      BuildPrompt(req.Context, req.Instruction),
		Model:       l.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	raw, err := postJSON(ctx, l.http, l.url, body)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(gjson.GetBytes(raw, "reply").String())
	if reply == "" {
		return "", insight.ErrEmptyText
	}
	return reply, nil
}
