package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/config"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/metrics"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/utils"
)

// ErrDisabled is returned by Reply when no model is configured
var ErrDisabled = errors.New("llm client is disabled")

var errEmptyResponse = errors.New("model returned no choices")

// Operation names used in logs and metrics
const (
	opEntities    = "entities"
	opIntent      = "intent"
	opPreferences = "preferences"
	opReply       = "reply"
)

// Client talks to an OpenAI-compatible chat model through langchaingo.
// The extraction methods never fail: any backend or parse error yields the
// neutral value for that operation.
type Client struct {
	model        llms.Model
	timeout      time.Duration
	temperature  float64
	maxTokens    int
	budgetLabels []string
	logger       *slog.Logger
}

// New builds a client from config. Without an API key the client is disabled
// and every call returns immediately.
func New(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if !cfg.Enabled {
		return NewWithModel(nil, cfg, logger), nil
	}

	m, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm model: %w", err)
	}
	return NewWithModel(m, cfg, logger), nil
}

// NewWithModel wraps an existing model; a nil model gives a disabled client
func NewWithModel(m llms.Model, cfg config.LLMConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		model:       m,
		timeout:     timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "llm-client"),
	}
}

// WithBudgetLabels sets the bucket labels the entity prompt asks the model to use
func (c *Client) WithBudgetLabels(labels []string) *Client {
	c.budgetLabels = append([]string(nil), labels...)
	return c
}

// IsEnabled reports whether a model is configured
func (c *Client) IsEnabled() bool {
	return c != nil && c.model != nil
}

// ExtractEntities asks the model for the search entities in text
func (c *Client) ExtractEntities(ctx context.Context, text string) model.EntityResult {
	var raw rawEntities
	if !c.complete(ctx, opEntities, entityPrompt(text, c.budgetLabels), &raw) {
		return model.EntityResult{}
	}
	return raw.toModel()
}

// ClassifyIntent asks the model for the intent of text
func (c *Client) ClassifyIntent(ctx context.Context, text string) model.IntentResult {
	var raw rawIntent
	if !c.complete(ctx, opIntent, intentPrompt(text), &raw) {
		return model.NeutralIntent()
	}
	return raw.toModel()
}

// ExtractPreferences asks the model for detailed preferences in text
func (c *Client) ExtractPreferences(ctx context.Context, text string) model.Preferences {
	var raw rawPreferences
	if !c.complete(ctx, opPreferences, preferencePrompt(text), &raw) {
		return model.Preferences{}
	}
	return raw.toModel()
}

// Reply generates a free-text chat reply for a fully built prompt
func (c *Client) Reply(ctx context.Context, prompt string) (string, error) {
	if !c.IsEnabled() {
		metrics.RecordLLMRequest(opReply, metrics.OutcomeDisabled, 0)
		return "", ErrDisabled
	}

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	if err != nil {
		metrics.RecordLLMRequest(opReply, metrics.OutcomeError, time.Since(start))
		return "", fmt.Errorf("generate reply: %w", err)
	}
	metrics.RecordLLMRequest(opReply, metrics.OutcomeOK, time.Since(start))
	return text, nil
}

// complete runs one prompt and decodes the first JSON object of the answer into
// target. It reports false on any failure after logging it.
func (c *Client) complete(ctx context.Context, op, prompt string, target any) bool {
	if !c.IsEnabled() {
		metrics.RecordLLMRequest(op, metrics.OutcomeDisabled, 0)
		return false
	}

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	if err != nil {
		metrics.RecordLLMRequest(op, metrics.OutcomeError, time.Since(start))
		c.logger.Warn("llm request failed", "operation", op, "error", err)
		return false
	}

	if err := utils.ParseModelJSON(text, target); err != nil {
		metrics.RecordLLMRequest(op, metrics.OutcomeParseError, time.Since(start))
		c.logger.Warn("llm response not parseable", "operation", op, "error", err)
		return false
	}

	metrics.RecordLLMRequest(op, metrics.OutcomeOK, time.Since(start))
	c.logger.Debug("llm request complete", "operation", op, "elapsed", time.Since(start))
	return true
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
