// Package server exposes the analyses over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/legendscope/legendscope/internal/insight"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/remote"
)

// Analyses is the analysis surface the handlers call.
type Analyses interface {
	Playstyle(ctx context.Context, playerID string) model.Response[model.PlaystyleSummary]
	Faultlines(ctx context.Context, playerID string) model.Response[model.FaultlinesSummary]
	Battles(ctx context.Context, playerID string) model.Response[model.BattleSummary]
}

// ProfileLookup resolves a Riot ID or PUUID to a profile.
type ProfileLookup interface {
	Lookup(ctx context.Context, req remote.LookupRequest) (remote.Profile, error)
}

// TextGenerator runs a free-form generation and reports the backend used.
type TextGenerator interface {
	Generate(ctx context.Context, req insight.Request) (text, backend string, err error)
}

// Options are the HTTP-level settings.
type Options struct {
	Prefix      string
	BodyLimit   int
	Compress    bool
	ReadTimeout time.Duration
	Environment string
	Version     string
}

// Deps are the handlers' collaborators. Profiles and Text may be nil, in
// which case their endpoints answer 503.
type Deps struct {
	Analyses Analyses
	Profiles ProfileLookup
	Text     TextGenerator
	Logger   *slog.Logger
}

// Server wraps the fiber app.
type Server struct {
	app    *fiber.App
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New builds the app and registers every route.
func New(opts Options, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{deps: deps, opts: opts, logger: deps.Logger}

	s.app = fiber.New(fiber.Config{
		AppName:               "LegendScope API",
		ServerHeader:          "LegendScope",
		ErrorHandler:          errorHandler,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.Compress {
		s.app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	}
	s.app.Use(requestLogger(s.logger))

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group(s.opts.Prefix)
	api.Get("/health", s.health)
	api.Post("/profile", s.profile)
	api.Post("/text/generate", s.generateText)

	b := api.Group("/battles/:playerId")
	b.Get("/summary", s.battleSection(cardsOf))
	b.Get("/roles", s.battleSection(rolesOf))
	b.Get("/champions", s.battleSection(championsOf))
	b.Get("/risk-profile", s.battleSection(riskOf))
	b.Get("/narrative", s.battleSection(narrativeOf))
	b.Get("/playstyle/summary", s.playstyle)
	b.Get("/faultlines/summary", s.faultlines)

	// last-20 paths used by existing dashboards
	last := b.Group("/summary/last-20")
	last.Get("/cards", s.battleSection(cardsOf))
	last.Get("/roles", s.battleSection(rolesOf))
	last.Get("/champions", s.battleSection(championsOf))
	last.Get("/risk-profile", s.battleSection(riskOf))
	last.Get("/narrative", s.battleSection(narrativeOf))
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", addr), slog.String("prefix", s.opts.Prefix))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
