package generate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tldw/pkg/summarize"
)

// State is the lifecycle of a generator session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned by Generate before Load has succeeded.
var ErrNotReady = errors.New("generator session not ready")

// Session owns the generator's availability state: idle until Load is
// called, loading while the probe runs, then ready or error. It holds no
// prompt or parsing logic; those are pure functions in pkg/summarize.
type Session struct {
	mu    sync.Mutex
	state State
	err   error
	gen   summarize.Generator
}

func NewSession(gen summarize.Generator) *Session {
	return &Session{state: StateIdle, gen: gen}
}

// Load probes the backend with a minimal request and moves the session to
// ready or error. Loading twice concurrently is rejected.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return fmt.Errorf("session already loading")
	}
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	_, err := s.gen.Generate(ctx, "Reply with the single word: ready")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.err = err
		return fmt.Errorf("generator probe failed: %w", err)
	}
	s.state = StateReady
	s.err = nil
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Ready() bool {
	return s.State() == StateReady
}

// Err returns the error that moved the session into the error state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Generate delegates to the backend once the session is ready.
func (s *Session) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Ready() {
		return "", ErrNotReady
	}
	return s.gen.Generate(ctx, prompt)
}
