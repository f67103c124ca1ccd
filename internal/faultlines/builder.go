package faultlines

import (
	"context"
	"time"

	"github.com/legendscope/legendscope/internal/insight"
	"github.com/legendscope/legendscope/internal/model"
	"golang.org/x/sync/errgroup"
)

// Insighter produces the insight line for a scored subject. Implementations
// must always return non-empty text.
type Insighter interface {
	Insight(ctx context.Context, subject string, score int, detail string) string
}

// Builder computes indices and fills their insights concurrently.
type Builder struct {
	insights    Insighter
	maxParallel int
	now         func() time.Time
}

// NewBuilder returns a Builder. A nil insighter uses the score-bucket
// fallback for every index; maxParallel <= 0 means one request per index at once.
func NewBuilder(insights Insighter, maxParallel int) *Builder {
	return &Builder{insights: insights, maxParallel: maxParallel, now: time.Now}
}

// Build computes every index for the window and attaches insights. Insight
// failures never fail the build.
func (b *Builder) Build(ctx context.Context, matches []model.DerivedMatch) (model.FaultlinesSummary, error) {
	computed, err := Compute(matches)
	if err != nil {
		return model.FaultlinesSummary{}, err
	}

	indices := make([]model.FaultlinesIndex, len(computed))
	for i, c := range computed {
		indices[i] = c.Index
	}

	if b.insights == nil {
		for i := range indices {
			indices[i].Insight = insight.Fallback(indices[i].Title, indices[i].Score)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		if b.maxParallel > 0 {
			g.SetLimit(b.maxParallel)
		}
		for i := range computed {
			i := i
			g.Go(func() error {
				c := computed[i]
				// a panicking backend gets the fallback like any other failure
				defer func() {
					if r := recover(); r != nil {
						indices[i].Insight = insight.Fallback(c.Index.Title, c.Index.Score)
					}
				}()
				indices[i].Insight = b.insights.Insight(gctx, c.Index.Title, c.Index.Score, c.Context)
				return nil
			})
		}
		_ = g.Wait()
	}

	return model.FaultlinesSummary{
		MatchCount:  len(matches),
		GeneratedAt: b.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Indices:     indices,
	}, nil
}
