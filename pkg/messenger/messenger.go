package messenger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNoReceiver means the target context is not listening. Distinguishable
// from a handler failure so callers can tell "nobody home" from "request
// failed".
var ErrNoReceiver = errors.New("no receiver for target")

// Message is one request sent across contexts. CorrelationID is generated
// per call and echoed back in the response.
type Message struct {
	CorrelationID string          `json:"correlation_id"`
	Action        string          `json:"action"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// Response answers one Message. Exactly one of Payload or Err is meaningful.
type Response struct {
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Err           string          `json:"error,omitempty"`
}

// Handler processes one request in the receiving context.
type Handler func(ctx context.Context, msg Message) (json.RawMessage, error)

// Messenger is the cross-context request/response channel.
type Messenger interface {
	Send(ctx context.Context, target string, action string, payload any) (*Response, error)
}

// Router is an in-process Messenger: targets register handlers, senders get
// correlated responses. It is the single-binary stand-in for a browser's
// runtime messaging, with the same visible failure mode when the target is
// missing.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]map[string]Handler)}
}

// Handle registers a handler for an action on a target context.
func (r *Router) Handle(target, action string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers[target] == nil {
		r.handlers[target] = make(map[string]Handler)
	}
	r.handlers[target][action] = h
}

func (r *Router) Send(ctx context.Context, target, action string, payload any) (*Response, error) {
	r.mu.RLock()
	var h Handler
	if actions, ok := r.handlers[target]; ok {
		h = actions[action]
	}
	r.mu.RUnlock()

	if h == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoReceiver, target, action)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	msg := Message{
		CorrelationID: uuid.NewString(),
		Action:        action,
		Payload:       raw,
	}

	result, err := h(ctx, msg)
	resp := &Response{CorrelationID: msg.CorrelationID}
	if err != nil {
		resp.Err = err.Error()
		return resp, err
	}
	resp.Payload = result
	return resp, nil
}
