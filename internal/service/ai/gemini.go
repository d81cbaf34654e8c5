package ai

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// GeminiProvider maps the conversation onto Gemini user/model turns.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, maxTokens int, logger *zap.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Complete(ctx context.Context, req domain.TranslationRequest) (ProviderResult, error) {
	contents := make([]*genai.Content, 0, len(req.Conversation))
	for _, msg := range req.Conversation {
		role := genai.Role(genai.RoleUser)
		if msg.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", g.model),
		zap.Int("turns", len(contents)),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		status := 0
		var apiErr genai.APIError
		if stderrors.As(err, &apiErr) {
			status = apiErr.Code
		}
		return ProviderResult{}, errors.NewTransportError("gemini request failed", g.Name(), "generate_content", status, err)
	}

	text := extractTextFromGeminiResponse(resp)
	g.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return ProviderResult{Text: text, Model: g.model}, nil
}
