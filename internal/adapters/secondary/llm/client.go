package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/sashabaranov/go-openai"
)

const provider = "llm"

// Client чат-модель поверх go-openai
type Client struct {
	client *openai.Client
	cfg    *Config
	log    *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	log.Info("llm client initialized", "model", cfg.Model, "base_url", clientCfg.BaseURL)

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		log:    log,
	}
}

func (c *Client) request(messages []domain.LLMMessage) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	return openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
}

func (c *Client) Complete(ctx context.Context, messages []domain.LLMMessage) (string, error) {
	if c.cfg.ApiKey == "" {
		return "", fmt.Errorf("LLM API key is not set")
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages))
	metrics.ObserveUpstream(provider, start, err)
	if err != nil {
		c.log.Debug("llm completion failed", "error", err, "model", c.cfg.Model)
		return "", fmt.Errorf("llm completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	c.log.Debug("llm completion received",
		"model", c.cfg.Model,
		"finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

// Stream читает ответ по частям; ошибка onDelta прерывает поток
func (c *Client) Stream(ctx context.Context, messages []domain.LLMMessage, onDelta func(delta string) error) error {
	if c.cfg.ApiKey == "" {
		return fmt.Errorf("LLM API key is not set")
	}

	start := time.Now()
	stream, err := c.client.CreateChatCompletionStream(ctx, c.request(messages))
	if err != nil {
		metrics.ObserveUpstream(provider, start, err)
		return fmt.Errorf("llm stream failed: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			metrics.ObserveUpstream(provider, start, nil)
			return nil
		}
		if err != nil {
			metrics.ObserveUpstream(provider, start, err)
			return fmt.Errorf("llm stream recv failed: %w", err)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		if err := onDelta(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}
