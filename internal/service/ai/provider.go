package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/kapu/localization-connect-go/internal/domain"
)

// Provider sends one translation conversation to a model vendor.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req domain.TranslationRequest) (ProviderResult, error)
}

type ProviderResult struct {
	Text  string
	Model string
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
