package auth

import (
	"context"

	"github.com/fmuoria/career-coach/internal/apperr"
)

// Static accepts a fixed set of tokens. Used for local development and tests.
type Static struct {
	Tokens map[string]Identity
	// Err, when set, is returned for every call to simulate a provider outage
	Err error
}

func (s *Static) Verify(_ context.Context, token string) (*Identity, error) {
	if s.Err != nil {
		return nil, apperr.Internal("Authentication error", s.Err)
	}
	id, ok := s.Tokens[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	return &id, nil
}
