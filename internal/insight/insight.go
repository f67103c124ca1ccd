// Package insight produces short coaching lines for scored subjects, asking a
// chain of text-generation backends first and falling back to fixed wording.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Instruction is sent with every index insight request.
const Instruction = "Write a 15-word tactical insight for this League of Legends player metric. Be specific and actionable."

// Generation parameters for index insights.
const (
	MaxTokens   = 40
	Temperature = 0.6
)

var (
	// ErrEmptyText is returned by a backend that replied with no usable text.
	ErrEmptyText = errors.New("empty generated text")
	// ErrNoBackend is returned when the chain has nothing to call.
	ErrNoBackend = errors.New("no text generation backend configured")
)

// Fallback returns deterministic wording keyed on the score bucket.
func Fallback(subject string, score int) string {
	name := strings.ToLower(subject)
	switch {
	case score >= 80:
		return fmt.Sprintf("Exceptional %s - maintain this strong foundation.", name)
	case score >= 65:
		return fmt.Sprintf("Solid %s with room for optimization.", name)
	case score >= 50:
		return fmt.Sprintf("Moderate %s - focus on consistency.", name)
	default:
		return fmt.Sprintf("Key growth opportunity in %s - prioritize improvement.", name)
	}
}

// Request is one text-generation call.
type Request struct {
	Context     string
	Instruction string
	MaxTokens   int
	Temperature float64
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Backend is a named generator with its own timeout.
type Backend struct {
	Name      string
	Generator Generator
	Timeout   time.Duration
}

// Chain tries each backend once, in order.
type Chain struct {
	backends []Backend
	logger   *slog.Logger
}

// NewChain builds a chain. Backends with a nil generator are skipped.
func NewChain(logger *slog.Logger, backends ...Backend) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{logger: logger}
	for _, b := range backends {
		if b.Generator != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

// Len reports how many backends the chain will try.
func (c *Chain) Len() int {
	return len(c.backends)
}

// Generate returns the first non-empty reply and the name of the backend that
// produced it. Each attempt is bounded by that backend's timeout.
func (c *Chain) Generate(ctx context.Context, req Request) (string, string, error) {
	if len(c.backends) == 0 {
		return "", "", ErrNoBackend
	}
	var errs []error
	for _, b := range c.backends {
		text, err := c.try(ctx, b, req)
		if err == nil {
			return text, b.Name, nil
		}
		c.logger.Warn("text generation backend failed",
			slog.String("backend", b.Name),
			slog.Any("error", err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", "", errors.Join(errs...)
}

func (c *Chain) try(ctx context.Context, b Backend, req Request) (string, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}
	text, err := b.Generator.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Service answers insight requests through the chain with an LRU cache in
// front. It never fails: callers always get text.
type Service struct {
	chain  *Chain
	cache  *lru.Cache
	logger *slog.Logger
}

// NewService wraps chain. cacheSize <= 0 disables caching.
func NewService(chain *Chain, cacheSize int, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if chain == nil {
		chain = NewChain(logger)
	}
	s := &Service{chain: chain, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("insight cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Insight returns a generated line for subject, or the fallback wording.
func (s *Service) Insight(ctx context.Context, subject string, score int, detail string) string {
	prompt := fmt.Sprintf("%s: %d/100. %s", subject, score, detail)
	if s.cache != nil {
		if v, ok := s.cache.Get(prompt); ok {
			return v.(string)
		}
	}
	text, backend, err := s.chain.Generate(ctx, Request{
		Context:     prompt,
		Instruction: Instruction,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		s.logger.Info("using fallback insight",
			slog.String("subject", subject),
			slog.Int("score", score),
			slog.Any("error", err),
		)
		return Fallback(subject, score)
	}
	s.logger.Debug("generated insight", slog.String("subject", subject), slog.String("backend", backend))
	if s.cache != nil {
		s.cache.Add(prompt, text)
	}
	return text
}

// Generate exposes the chain for free-form requests.
func (s *Service) Generate(ctx context.Context, req Request) (string, string, error) {
	return s.chain.Generate(ctx, req)
}
