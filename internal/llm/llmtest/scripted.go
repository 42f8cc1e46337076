// Package llmtest provides a scripted Completer for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"
)

// Reply is one scripted completion outcome
type Reply struct {
	Text string
	Err  error
}

// Scripted replays replies in order and records every prompt it saw
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []string
}

// New returns a Scripted completer that answers with texts in order
func New(texts ...string) *Scripted {
	s := &Scripted{}
	for _, t := range texts {
		s.replies = append(s.replies, Reply{Text: t})
	}
	return s
}

// Push appends more replies
func (s *Scripted) Push(replies ...Reply) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
	return s
}

// Complete implements llm.Completer
func (s *Scripted) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.replies) == 0 {
		return "", errors.New("llmtest: no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.Text, r.Err
}

// Prompts returns a copy of every prompt received so far
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Calls returns the number of completions requested
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
