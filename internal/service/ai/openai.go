package ai

import (
	"context"
	stderrors "errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// OpenAIProvider wraps the OpenAI chat completion client.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewOpenAIProvider(apiKey, model string, maxTokens int, opts []option.RequestOption, logger *zap.Logger) *OpenAIProvider {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Complete(ctx context.Context, req domain.TranslationRequest) (ProviderResult, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Conversation)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Conversation {
		if msg.Role == domain.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(msg.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(msg.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(o.maxTokens)),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return ProviderResult{}, errors.NewTransportError("openai request failed", o.Name(), "chat_completions", status, err)
	}

	if len(resp.Choices) == 0 {
		return ProviderResult{Model: o.model}, nil
	}

	text := resp.Choices[0].Message.Content
	o.logger.Debug("OpenAI response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return ProviderResult{Text: text, Model: o.model}, nil
}
