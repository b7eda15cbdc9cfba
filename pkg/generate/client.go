package generate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ModelConfig names the completion model and its output budget.
type ModelConfig struct {
	ID        string
	MaxTokens int
}

var DefaultModel = ModelConfig{ID: "gpt-4o-mini", MaxTokens: 2048}

// KeyState tracks the health of an API key.
type KeyState struct {
	Key          string
	FailureCount int
	LastUsed     time.Time
	LastSuccess  time.Time
}

// Client talks to an OpenAI-compatible chat completions endpoint. Supports
// multiple comma-separated API keys, rotated by failure count so a
// rate-limited key drifts to the back.
type Client struct {
	keys        []*KeyState
	keyMu       sync.RWMutex
	clients     map[string]openai.Client
	clientsMu   sync.RWMutex
	baseURL     string
	temperature float64
	model       ModelConfig
}

func NewClient(baseURL, apiKeys string, temperature float64, model ModelConfig) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model.ID == "" {
		model = DefaultModel
	}

	keyStrings := strings.Split(apiKeys, ",")
	keys := make([]*KeyState, 0, len(keyStrings))
	for _, k := range keyStrings {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, &KeyState{Key: k})
		}
	}

	if len(keys) == 0 {
		log.Println("Warning: No generator API keys provided")
	} else {
		log.Printf("Loaded %d generator API key(s)", len(keys))
	}

	return &Client{
		keys:        keys,
		clients:     make(map[string]openai.Client),
		baseURL:     baseURL,
		temperature: temperature,
		model:       model,
	}
}

func (c *Client) getClient(key string) openai.Client {
	c.clientsMu.RLock()
	if client, ok := c.clients[key]; ok {
		c.clientsMu.RUnlock()
		return client
	}
	c.clientsMu.RUnlock()

	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()

	client := openai.NewClient(
		option.WithBaseURL(c.baseURL),
		option.WithAPIKey(key),
	)
	c.clients[key] = client
	return client
}

func (c *Client) getBestKey() *KeyState {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()

	if len(c.keys) == 0 {
		return nil
	}

	best := c.keys[0]
	for _, k := range c.keys[1:] {
		if k.FailureCount < best.FailureCount {
			best = k
		}
	}
	return best
}

func (c *Client) recordSuccess(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.LastSuccess = time.Now()
	key.LastUsed = time.Now()
	if key.FailureCount > 0 {
		key.FailureCount--
	}
}

func (c *Client) recordFailure(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.FailureCount++
	key.LastUsed = time.Now()
}

// Generate sends the prompt as a single user message and returns the
// model's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	keyState := c.getBestKey()
	if keyState == nil {
		return "", fmt.Errorf("no API keys configured")
	}

	client := c.getClient(keyState.Key)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model.ID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.model.MaxTokens)),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.recordFailure(keyState)
		return "", err
	}

	if resp == nil || len(resp.Choices) == 0 {
		c.recordFailure(keyState)
		return "", fmt.Errorf("empty response")
	}

	c.recordSuccess(keyState)
	return resp.Choices[0].Message.Content, nil
}
