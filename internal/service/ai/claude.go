package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type claudeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClaudeProvider talks to the Anthropic Messages API.
type ClaudeProvider struct {
	http      *resty.Client
	apiURL    string
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewClaudeProvider(apiKey, apiURL, model string, maxTokens int, logger *zap.Logger) *ClaudeProvider {
	if apiURL == "" {
		apiURL = constants.ProviderDefaults.ClaudeAPIURL
	}
	if model == "" {
		model = constants.ProviderDefaults.ClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = constants.TranslationConfig.MaxTokens
	}

	client := resty.New().
		SetTimeout(constants.TranslationConfig.RequestTimeout).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", constants.ProviderDefaults.ClaudeAPIVersion).
		SetHeader("Content-Type", "application/json")

	return &ClaudeProvider{
		http:      client,
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (c *ClaudeProvider) Name() string {
	return "Claude"
}

func (c *ClaudeProvider) Complete(ctx context.Context, req domain.TranslationRequest) (ProviderResult, error) {
	body := claudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Messages:  make([]claudeMessage, 0, len(req.Conversation)),
	}
	for _, msg := range req.Conversation {
		body.Messages = append(body.Messages, claudeMessage{Role: string(msg.Role), Content: msg.Content})
	}

	c.logger.Debug("Generating with Claude",
		zap.String("model", c.model),
		zap.Int("turns", len(body.Messages)),
	)

	var resp claudeResponse
	var apiErr claudeErrorBody
	r, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&apiErr).
		Post(c.apiURL)
	if err != nil {
		return ProviderResult{}, errors.NewTransportError("claude request failed", c.Name(), "messages", 0, err)
	}
	if r.IsError() {
		detail := apiErr.Error.Message
		if detail == "" {
			detail = strings.TrimSpace(r.String())
		}
		return ProviderResult{}, errors.NewTransportError(
			fmt.Sprintf("claude returned %s: %s", r.Status(), detail),
			c.Name(), "messages", r.StatusCode(), nil,
		)
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	text := strings.Join(texts, "")

	c.logger.Debug("Claude response received",
		zap.Int("length", len(text)),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return ProviderResult{Text: text, Model: model}, nil
}
