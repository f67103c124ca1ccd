// Package analyzer is the entry point for every per-player analysis. It gates
// on profile status, loads and normalizes the match window, runs the scoring
// engine and wraps the result in a status-tagged response.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/legendscope/legendscope/internal/aggregator"
	"github.com/legendscope/legendscope/internal/battles"
	"github.com/legendscope/legendscope/internal/faultlines"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/normalize"
)

// Snapshot kinds, matching the storage layer's.
const (
	KindPlaystyle  = "playstyle"
	KindFaultlines = "faultlines"
	KindBattles    = "battles"
)

// ProfileSource reports a player's match-history status.
type ProfileSource interface {
	Status(ctx context.Context, playerID string) (model.Status, error)
}

// MatchSource returns a player's recent matches, most recent first.
type MatchSource interface {
	Matches(ctx context.Context, playerID string) ([]model.MatchRecord, error)
}

// Normalizer turns a raw record into derived metrics.
type Normalizer interface {
	Derive(r model.MatchRecord) model.DerivedMatch
}

// SnapshotSaver persists finished analyses.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, playerID, kind string, status model.Status, data any) (string, error)
}

// Deps are the analyzer's collaborators. Profiles and Matches are required.
type Deps struct {
	Profiles   ProfileSource
	Matches    MatchSource
	Normalizer Normalizer
	// Insights fills faultlines insight text; nil uses fallback wording.
	Insights    faultlines.Insighter
	MaxParallel int
	// Snapshots, when set, receives every READY result in the background.
	Snapshots SnapshotSaver
	Playstyle aggregator.Options
	Logger    *slog.Logger
}

// Analyzer runs analyses for one configured set of sources.
type Analyzer struct {
	profiles   ProfileSource
	matches    MatchSource
	normalizer Normalizer
	faultlines *faultlines.Builder
	playstyle  aggregator.Options
	snapshots  SnapshotSaver
	logger     *slog.Logger
	detached   sync.WaitGroup
}

// New returns an Analyzer.
func New(d Deps) *Analyzer {
	if d.Normalizer == nil {
		d.Normalizer = normalize.Normalizer{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Analyzer{
		profiles:   d.Profiles,
		matches:    d.Matches,
		normalizer: d.Normalizer,
		faultlines: faultlines.NewBuilder(d.Insights, d.MaxParallel),
		playstyle:  d.Playstyle,
		snapshots:  d.Snapshots,
		logger:     d.Logger,
	}
}

// Playstyle returns the signature playstyle summary.
func (a *Analyzer) Playstyle(ctx context.Context, playerID string) model.Response[model.PlaystyleSummary] {
	return run(ctx, a, playerID, KindPlaystyle, true, func(_ context.Context, ms []model.DerivedMatch) (model.PlaystyleSummary, error) {
		return aggregator.Playstyle(ms, a.playstyle)
	})
}

// Faultlines returns the eight faultlines indices with insights.
func (a *Analyzer) Faultlines(ctx context.Context, playerID string) model.Response[model.FaultlinesSummary] {
	return run(ctx, a, playerID, KindFaultlines, true, a.faultlines.Build)
}

// Battles returns the battle-history page. It uses the unfiltered window and
// answers READY with zeroed sections when there are no matches.
func (a *Analyzer) Battles(ctx context.Context, playerID string) model.Response[model.BattleSummary] {
	return run(ctx, a, playerID, KindBattles, false, func(_ context.Context, ms []model.DerivedMatch) (model.BattleSummary, error) {
		return battles.Summarize(ms), nil
	})
}

// Wait blocks until background snapshot saves have finished.
func (a *Analyzer) Wait() {
	a.detached.Wait()
}

func run[T any](ctx context.Context, a *Analyzer, playerID, kind string, filter bool,
	compute func(context.Context, []model.DerivedMatch) (T, error)) (resp model.Response[T]) {

	log := a.logger.With(slog.String("player", playerID), slog.String("analysis", kind))

	status, err := a.profiles.Status(ctx, playerID)
	if err != nil {
		log.Warn("profile status lookup failed", slog.Any("error", err))
		status = model.StatusUnknown
	}
	if status != model.StatusReady {
		return model.Response[T]{Status: status}
	}

	records, err := a.matches.Matches(ctx, playerID)
	if err != nil {
		log.Error("fetch matches", slog.Any("error", err))
		return model.Response[T]{Status: model.StatusFailed}
	}
	if filter {
		records = normalize.FilterMinDuration(records)
		if len(records) == 0 {
			return model.Response[T]{Status: model.StatusNoMatches}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", slog.String("panic", fmt.Sprint(r)))
			resp = model.Response[T]{Status: model.StatusFailed}
		}
	}()

	derived := make([]model.DerivedMatch, 0, len(records))
	for _, r := range records {
		derived = append(derived, a.normalizer.Derive(r))
	}

	data, err := compute(ctx, derived)
	switch {
	case errors.Is(err, aggregator.ErrNoMatches):
		return model.Response[T]{Status: model.StatusNoMatches}
	case err != nil:
		log.Error("analysis failed", slog.Any("error", err))
		return model.Response[T]{Status: model.StatusFailed}
	}

	log.Info("analysis complete", slog.Int("matches", len(derived)))
	a.saveDetached(playerID, kind, data)
	return model.Response[T]{Status: model.StatusReady, Data: &data}
}

// saveDetached persists data on its own goroutine with a fresh context. The
// request path never waits for it and its errors are only logged.
func (a *Analyzer) saveDetached(playerID, kind string, data any) {
	if a.snapshots == nil {
		return
	}
	a.detached.Add(1)
	go func() {
		defer a.detached.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := a.snapshots.SaveSnapshot(ctx, playerID, kind, model.StatusReady, data)
		if err != nil {
			a.logger.Error("save snapshot", slog.String("player", playerID), slog.String("analysis", kind), slog.Any("error", err))
			return
		}
		a.logger.Debug("snapshot saved", slog.String("id", id), slog.String("analysis", kind))
	}()
}
