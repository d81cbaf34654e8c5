package ai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/util"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

func sampleRequest() domain.TranslationRequest {
	conv := domain.NewConversation("translate this").Append(
		domain.Message{Role: domain.RoleAssistant, Content: "too long"},
		domain.Message{Role: domain.RoleUser, Content: "shorter please"},
	)
	return domain.TranslationRequest{System: "you translate", Conversation: conv}
}

func TestClaudeProviderSendsConversation(t *testing.T) {
	var got claudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"claude-test","content":[{"type":"text","text":"Hallo"},{"type":"text","text":" Welt"}]}`)
	}))
	defer srv.Close()

	provider := NewClaudeProvider("sk-test", srv.URL, "claude-test", 512, zap.NewNop())
	result, err := provider.Complete(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Hallo Welt", result.Text)
	assert.Equal(t, "you translate", got.System)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "shorter please", got.Messages[2].Content)
}

func TestClaudeProviderReportsHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	provider := NewClaudeProvider("bad", srv.URL, "claude-test", 512, zap.NewNop())
	_, err := provider.Complete(context.Background(), sampleRequest())

	var transportErr *errors.TransportError
	require.True(t, stderrors.As(err, &transportErr))
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestOpenAIProviderMapsRoles(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4.1","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Bonjour"}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("sk-test", "gpt-4.1", 256,
		[]option.RequestOption{option.WithBaseURL(srv.URL + "/"), option.WithMaxRetries(0)}, zap.NewNop())
	result, err := provider.Complete(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Bonjour", result.Text)
	assert.Equal(t, "gpt-4.1", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
}

type stubProvider struct {
	calls int
	err   error
	text  string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(context.Context, domain.TranslationRequest) (ProviderResult, error) {
	s.calls++
	if s.err != nil {
		return ProviderResult{}, s.err
	}
	return ProviderResult{Text: s.text}, nil
}

func TestModelManagerOpensCircuitOnOutages(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("connection reset")}
	mm := NewModelManager(stub, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := mm.Complete(context.Background(), sampleRequest())
		var transportErr *errors.TransportError
		require.True(t, stderrors.As(err, &transportErr))
	}
	assert.Equal(t, util.CircuitStateOpen, mm.GetCircuitStatus().State)

	_, err := mm.Complete(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Equal(t, 3, stub.calls, "open circuit must not reach the provider")

	mm.ResetCircuit()
	stub.err = nil
	stub.text = "ok"
	text, err := mm.Complete(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestModelManagerIgnoresClientErrorsForCircuit(t *testing.T) {
	stub := &stubProvider{err: errors.NewTransportError("bad key", "stub", "complete", http.StatusUnauthorized, nil)}
	mm := NewModelManager(stub, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := mm.Complete(context.Background(), sampleRequest())
		require.Error(t, err)
	}
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
	assert.Equal(t, 5, stub.calls)
}
