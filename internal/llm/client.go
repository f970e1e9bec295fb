// Package llm is the client for the external completion provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/pkg/logger"
	"character-chat-demo/backend/pkg/metrics"
)

// Fixed replies for provider failure modes. Errors never surface as HTTP
// errors; they become reply text.
const (
	rateLimitedReply  = "Sorry, I'm being rate limited right now. Please try again in a moment."
	networkErrorReply = "Sorry, I couldn't reach the model provider. Please try again."
)

// demoPhrases is the fixed reply set used when demo mode is on
var demoPhrases = []string{
	"Believe it!",
	"Let's train harder!",
	"You can do it!",
}

// Config carries completion client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	DemoMode    bool
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Client sends character-conditioned prompts to the completion provider.
// One attempt per request, no retries; every failure mode maps to a fixed
// reply string.
type Client struct {
	api   *openai.Client
	model string
	demo  bool

	maxTokens   int
	temperature float32
	topP        float32
	timeout     time.Duration

	log *logger.Logger
}

// New creates a completion client. In demo mode no provider client is
// constructed at all, so no network call can ever happen.
func New(cfg Config, log *logger.Logger) *Client {
	c := &Client{
		model:       cfg.Model,
		demo:        cfg.DemoMode,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		topP:        float32(cfg.TopP),
		timeout:     cfg.Timeout,
		log:         log,
	}

	if !cfg.DemoMode {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		c.api = openai.NewClientWithConfig(apiCfg)
	}

	return c
}

// DemoMode reports whether the client answers locally
func (c *Client) DemoMode() bool {
	return c.demo
}

// Reply produces the assistant reply for one user turn. It always returns
// usable text; provider failures are encoded into the reply.
func (c *Client) Reply(ctx context.Context, character models.Character, userMessage string) string {
	if c.demo {
		metrics.CompletionOutcomes.WithLabelValues("demo").Inc()
		return fmt.Sprintf("As %s: %s", character.Name, demoPhrases[rand.Intn(len(demoPhrases))])
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(character)},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return c.replyForError(err, character)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionOutcomes.WithLabelValues("provider_error").Inc()
		return "Sorry, there was an error: the provider returned no choices"
	}

	metrics.CompletionOutcomes.WithLabelValues("ok").Inc()
	return resp.Choices[0].Message.Content
}

// systemPrompt builds the character-conditioned instruction. Traits and
// style are interpolated verbatim; the destination is a trusted model
// prompt, not a rendered document.
func systemPrompt(character models.Character) string {
	return fmt.Sprintf(
		"You are %s from %s. Your personality traits are: %s. Your communication style: %s. Stay in character and answer like %s would.",
		character.Name, character.Universe, character.Traits, character.Style, character.Name,
	)
}

// replyForError maps a provider failure to reply text
func (c *Client) replyForError(err error, character models.Character) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			metrics.CompletionOutcomes.WithLabelValues("rate_limited").Inc()
			return rateLimitedReply
		}
		metrics.CompletionOutcomes.WithLabelValues("provider_error").Inc()
		c.log.Warn("completion provider error",
			"character", character.Name,
			"status", apiErr.HTTPStatusCode,
			"message", apiErr.Message,
		)
		if apiErr.Message != "" {
			return "Sorry, there was an error: " + apiErr.Message
		}
		return fmt.Sprintf("Sorry, there was an error: status %d", apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			metrics.CompletionOutcomes.WithLabelValues("rate_limited").Inc()
			return rateLimitedReply
		}
		metrics.CompletionOutcomes.WithLabelValues("provider_error").Inc()
		c.log.Warn("completion request error",
			"character", character.Name,
			"status", reqErr.HTTPStatusCode,
		)
		return fmt.Sprintf("Sorry, there was an error: status %d", reqErr.HTTPStatusCode)
	}

	metrics.CompletionOutcomes.WithLabelValues("network_error").Inc()
	c.log.Warn("completion call failed", "character", character.Name, "error", err.Error())
	return networkErrorReply
}
