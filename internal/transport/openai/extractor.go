// Package openai is a topic extraction provider backed by an
// OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Bestroi150/georgievi-network/internal/domain"
	"github.com/Bestroi150/georgievi-network/internal/metrics"
)

const systemPrompt = `You label historical correspondence. Given a letter, reply with a JSON object:
{"topics": [...], "commodities": [...]}
topics: short thematic labels (e.g. "trade", "family", "politics").
commodities: tradable goods the letter mentions, singular nouns.
Reply with the JSON object only.`

// Extractor derives topics and commodities from letter content via an
// OpenAI-compatible API (e.g. a local vLLM deployment).
type Extractor struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the extraction provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewExtractor creates an OpenAI-compatible extraction provider.
func NewExtractor(cfg *Config) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Extractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Extract implements ingest.Extractor.
func (e *Extractor) Extract(ctx context.Context, content string) (topics, commodities []string, err error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: e.user,
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ExtractorRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		return nil, nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.ExtractorRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		return nil, nil, fmt.Errorf("empty extraction response: %w", domain.ErrExtractorUnavailable)
	}

	metrics.ExtractorRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.ExtractorRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())

	return parseLabels(resp.Choices[0].Message.Content)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseLabels decodes the model reply. A malformed reply counts as a
// provider failure.
func parseLabels(reply string) (topics, commodities []string, err error) {
	var parsed struct {
		Topics      []string `json:"topics"`
		Commodities []string `json:"commodities"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, nil, fmt.Errorf("malformed extraction reply: %w: %w", domain.ErrExtractorUnavailable, err)
	}
	sort.Strings(parsed.Topics)
	sort.Strings(parsed.Commodities)
	return parsed.Topics, parsed.Commodities, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrExtractorUnavailable for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrExtractorUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("extraction request failed: %w", wrap)
}
