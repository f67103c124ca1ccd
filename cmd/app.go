package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/legendscope/legendscope/internal/analyzer"
	"github.com/legendscope/legendscope/internal/insight"
	"github.com/legendscope/legendscope/internal/remote"
	"github.com/legendscope/legendscope/internal/storage"
	"github.com/legendscope/legendscope/internal/textgen"
)

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newRemote returns a Lambda client, or nil when the URLs are not configured.
func newRemote(logger *slog.Logger) *remote.Client {
	r := cfg.Remote
	if !r.Configured() {
		return nil
	}
	return remote.NewClient(remote.Endpoints{
		Profile:       r.ProfileURL,
		GetUUID:       r.GetUUIDURL,
		CreateProfile: r.CreateProfileURL,
		Matches:       r.MatchesURL,
	}, r.Region, logger)
}

// newInsights builds the generator chain: the two Lambda models first, then
// Anthropic when a key is configured.
func newInsights(logger *slog.Logger) (*insight.Service, error) {
	tg := cfg.TextGen
	var backends []insight.Backend
	if tg.Enabled {
		if tg.LambdaURL != "" {
			backends = append(backends,
				insight.Backend{
					Name:      "lambda:" + tg.PrimaryModel,
					Generator: textgen.NewLambda(tg.LambdaURL, tg.PrimaryModel, secs(tg.PrimaryTimeoutSec)),
					Timeout:   secs(tg.PrimaryTimeoutSec),
				},
				insight.Backend{
					Name:      "lambda:" + tg.SecondaryModel,
					Generator: textgen.NewLambda(tg.LambdaURL, tg.SecondaryModel, secs(tg.SecondaryTimeoutSec)),
					Timeout:   secs(tg.SecondaryTimeoutSec),
				},
			)
		}
		if tg.AnthropicAPIKey != "" {
			backends = append(backends, insight.Backend{
				Name:      "anthropic:" + tg.AnthropicModel,
				Generator: textgen.NewAnthropic(tg.AnthropicAPIKey, tg.AnthropicModel),
				Timeout:   secs(tg.AnthropicTimeoutSec),
			})
		}
	}
	return insight.NewService(insight.NewChain(logger, backends...), tg.CacheSize, logger)
}

// app holds everything an analysis command needs.
type app struct {
	db       *storage.DB
	remote   *remote.Client
	insights *insight.Service
	analyzer *analyzer.Analyzer
	profiles analyzer.ProfileSource
	matches  analyzer.MatchSource
	logger   *slog.Logger
}

// newApp opens the store and wires the analyzer to the local cache, or to
// the Lambdas when --remote is set.
func newApp() (*app, error) {
	logger := slog.Default()
	db, err := openStore()
	if err != nil {
		return nil, err
	}
	a := &app{db: db, remote: newRemote(logger), logger: logger}

	a.profiles, a.matches = db, db
	if useRemote {
		if a.remote == nil {
			db.Close()
			return nil, fmt.Errorf("--remote needs the profile and matches Lambda URLs (APP_LAMBDA_PROFILE_URL, APP_LAMBDA_MATCHES_URL)")
		}
		a.profiles, a.matches = a.remote, a.remote
	}

	a.insights, err = newInsights(logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	deps := analyzer.Deps{
		Profiles:    a.profiles,
		Matches:     a.matches,
		Insights:    a.insights,
		MaxParallel: cfg.TextGen.MaxParallel,
		Logger:      logger,
	}
	if cfg.Analysis.Snapshots {
		deps.Snapshots = db
	}
	a.analyzer = analyzer.New(deps)
	return a, nil
}

// Close waits for detached saves and closes the store.
func (a *app) Close() {
	a.analyzer.Wait()
	if a.remote != nil {
		a.remote.Wait()
	}
	a.db.Close()
}
