package server

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/legendscope/legendscope/internal/insight"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/remote"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"project":     "legendscope",
		"environment": s.opts.Environment,
		"version":     s.opts.Version,
	})
}

// playerID returns the trimmed path parameter, or "" when it is blank.
func playerID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("playerId"))
}

func (s *Server) playstyle(c *fiber.Ctx) error {
	id := playerID(c)
	if id == "" {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "player id is required")
	}
	return c.JSON(s.deps.Analyses.Playstyle(c.UserContext(), id))
}

func (s *Server) faultlines(c *fiber.Ctx) error {
	id := playerID(c)
	if id == "" {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "player id is required")
	}
	return c.JSON(s.deps.Analyses.Faultlines(c.UserContext(), id))
}

// sectionResponse carries one projected part of the battle summary.
type sectionResponse struct {
	Status model.Status `json:"status"`
	Data   any          `json:"data"`
}

func cardsOf(b *model.BattleSummary) any     { return b.Cards }
func rolesOf(b *model.BattleSummary) any     { return b.Roles }
func championsOf(b *model.BattleSummary) any { return b.Champions }
func riskOf(b *model.BattleSummary) any      { return b.Risk }
func narrativeOf(b *model.BattleSummary) any { return b.Narrative }

func (s *Server) battleSection(pick func(*model.BattleSummary) any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := playerID(c)
		if id == "" {
			return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "player id is required")
		}
		resp := s.deps.Analyses.Battles(c.UserContext(), id)
		out := sectionResponse{Status: resp.Status}
		if resp.Data != nil {
			out.Data = pick(resp.Data)
		}
		return c.JSON(out)
	}
}

type profileRequest struct {
	RiotID string `json:"riot_id"`
	PUUID  string `json:"puuid"`
	Region string `json:"region"`
}

func (r *profileRequest) validate() string {
	r.RiotID = strings.TrimSpace(r.RiotID)
	r.PUUID = strings.TrimSpace(r.PUUID)
	r.Region = strings.ToLower(strings.TrimSpace(r.Region))
	switch {
	case r.RiotID == "" && r.PUUID == "":
		return "either riot_id or puuid is required"
	case r.RiotID != "" && (len(r.RiotID) < 3 || len(r.RiotID) > 50):
		return "riot_id must be 3-50 characters"
	case len(r.Region) < 2 || len(r.Region) > 10:
		return "region must be 2-10 characters"
	}
	return ""
}

func (s *Server) profile(c *fiber.Ctx) error {
	if s.deps.Profiles == nil {
		return sendError(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", "profile lookup is not configured")
	}
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
	}
	if msg := req.validate(); msg != "" {
		return sendError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
	}

	p, err := s.deps.Profiles.Lookup(c.UserContext(), remote.LookupRequest{
		RiotID: req.RiotID,
		PUUID:  req.PUUID,
		Region: req.Region,
	})
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", "profile not found")
	case err != nil:
		s.logger.Error("profile lookup", slog.String("riot_id", req.RiotID), slog.Any("error", err))
		return sendError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "profile service unavailable")
	}
	return c.JSON(p)
}

type textRequest struct {
	Context     string   `json:"context"`
	Query       string   `json:"query"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
}

type textResponse struct {
	Text    string  `json:"text"`
	Status  string  `json:"status"`
	Backend string  `json:"backend,omitempty"`
	Error   *string `json:"error"`
}

func (s *Server) generateText(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 500
	}
	temp := 0.7
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	switch {
	case strings.TrimSpace(req.Context) == "" || strings.TrimSpace(req.Query) == "":
		return sendError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "context and query are required")
	case req.MaxTokens < 10 || req.MaxTokens > 2000:
		return sendError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "max_tokens must be between 10 and 2000")
	case temp < 0 || temp > 1:
		return sendError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "temperature must be between 0 and 1")
	}
	if s.deps.Text == nil {
		msg := insight.ErrNoBackend.Error()
		return c.JSON(textResponse{Status: "error", Error: &msg})
	}

	text, backend, err := s.deps.Text.Generate(c.UserContext(), insight.Request{
		Context:     req.Context,
		Instruction: req.Query,
		MaxTokens:   req.MaxTokens,
		Temperature: temp,
	})
	if err != nil {
		s.logger.Warn("text generation failed", slog.Any("error", err))
		msg := err.Error()
		return c.JSON(textResponse{Status: "error", Error: &msg})
	}
	return c.JSON(textResponse{Text: text, Status: "success", Backend: backend})
}
