package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/store"
)

// Middleware decorates a Provider.
type Middleware func(Provider) Provider

// Chain applies mws to p. The first middleware is the outermost.
func Chain(p Provider, mws ...Middleware) Provider {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			p = mws[i](p)
		}
	}
	return p
}

// RetryConfig configures retries of temporary failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// Retry re-sends a prompt after temporary failures, doubling the wait each
// time with ±20% jitter. A rate limit's Retry-After wins over the backoff.
func Retry(cfg RetryConfig, logger *slog.Logger) Middleware {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Provider) Provider {
		return &retrying{next: next, cfg: cfg, logger: logger}
	}
}

type retrying struct {
	next   Provider
	cfg    RetryConfig
	logger *slog.Logger
}

func (r *retrying) Model() string { return r.next.Model() }

func (r *retrying) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	wait := r.cfg.InitialWait
	for attempt := 1; ; attempt++ {
		c, err := r.next.Complete(ctx, p)
		if err == nil {
			return c, nil
		}

		var perr *Error
		if attempt == r.cfg.MaxAttempts || !errors.As(err, &perr) || !perr.Temporary() {
			return nil, err
		}

		d := jitter(wait)
		if perr.RetryAfter > 0 {
			d = perr.RetryAfter
		}
		r.logger.Debug("retrying llm request", "purpose", p.Purpose, "attempt", attempt, "wait", d, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
		wait = min(wait*2, r.cfg.MaxWait)
	}
}

func jitter(d time.Duration) time.Duration {
	f := 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(float64(d) * f)
}

// Timeout bounds each Complete call, retries included when Timeout is
// outside Retry.
func Timeout(d time.Duration) Middleware {
	return func(next Provider) Provider {
		if d <= 0 {
			return next
		}
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next Provider
	d    time.Duration
}

func (t *timed) Model() string { return t.next.Model() }

func (t *timed) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, p)
}

// Record stores every request and its outcome in repo. A failed write is
// logged and never fails the request.
func Record(provider string, repo store.EventRepo, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Provider) Provider {
		if repo == nil {
			return next
		}
		return &recorded{next: next, provider: provider, repo: repo, logger: logger}
	}
}

type recorded struct {
	next     Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

func (r *recorded) Model() string { return r.next.Model() }

func (r *recorded) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	start := time.Now()
	c, err := r.next.Complete(ctx, p)

	ev := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.next.Model(),
		Purpose:     p.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(p),
	}
	if ev.Purpose == "" {
		ev.Purpose = "unknown"
	}
	if c != nil {
		ev.Model = c.Model
		ev.InputTokens = c.InputTokens
		ev.OutputTokens = c.OutputTokens
		ev.ResponseBody = string(c.JSON)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	r.logger.Debug("llm request", "purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs, "ok", ev.Success)
	if werr := r.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); werr != nil {
		r.logger.Warn("record llm request", "error", werr)
	}
	return c, err
}

// transcript renders a prompt for the event log.
func transcript(p Prompt) string {
	var b strings.Builder
	if p.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", p.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", p.User)
	if p.Format != nil {
		fmt.Fprintf(&b, "\n[format: %s]\n", p.Format.Name)
	}
	return b.String()
}
