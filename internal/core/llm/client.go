package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/cache"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client wraps an OpenAI-compatible chat-completions endpoint. All calls
// request JSON-object output; responses may optionally be served from the
// completion cache.
type Client struct {
	cfg    config.LLMConfig
	client *resty.Client
	cache  *cache.Service
}

// NewClient builds a Client. cacheService may be nil to disable caching.
func NewClient(cfg config.LLMConfig, cacheService *cache.Service) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests ||
				r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		cfg:    cfg,
		client: client,
		cache:  cacheService,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat *responseFmt  `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one user prompt and returns the raw completion text.
func (c *Client) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, c.cfg.Model, prompt); err == nil {
			return cached, nil
		}
	}

	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFmt{Type: "json_object"},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return "", fmt.Errorf("failed to call chat completions: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("chat completions returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.cfg.Model),
		)
		return "", fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat completions response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat completions response")
	}

	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in chat completions response")
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, c.cfg.Model, prompt, content); err != nil {
			common.LogWarn("failed to cache completion", zap.Error(err))
		}
	}
	return content, nil
}
