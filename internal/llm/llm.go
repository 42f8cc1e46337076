package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/apperr"
)

// Completer turns one prompt into one text completion
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the model produced no text
var ErrEmptyCompletion = errors.New("no response candidates returned")

// CleanJSON strips markdown code fences that models wrap around JSON
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// IsTransient reports whether a completion error is worth retrying:
// timeouts, rate limits and server-side unavailability.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"resourceexhausted", "resource exhausted", "429", "rate limit", "quota",
		"unavailable", "500", "502", "503", "504", "internal error",
		"deadline exceeded", "timeout", "connection reset", "eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Retrying bounds every completion with a timeout and retries transient
// failures with linear backoff. Errors come back as apperr kinds.
type Retrying struct {
	next     Completer
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewRetrying wraps next. attempts counts the first call.
func NewRetrying(next Completer, timeout time.Duration, attempts int, backoff time.Duration, logger *zap.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{
		next:     next,
		timeout:  timeout,
		attempts: attempts,
		backoff:  backoff,
		logger:   logger,
	}
}

// Complete implements Completer
func (r *Retrying) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		out, err := r.once(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if errors.Is(err, ErrEmptyCompletion) {
			return "", apperr.UpstreamFormat("AI returned an empty response", err)
		}
		if !IsTransient(err) || ctx.Err() != nil || attempt == r.attempts {
			break
		}

		wait := r.backoff * time.Duration(attempt)
		r.logger.Warn("Transient completion failure, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", apperr.UpstreamFailure("AI completion cancelled", ctx.Err())
		case <-time.After(wait):
		}
	}

	return "", apperr.UpstreamFailure("AI completion failed", fmt.Errorf("after %d attempts: %w", r.attempts, lastErr))
}

func (r *Retrying) once(ctx context.Context, prompt string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.next.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}
