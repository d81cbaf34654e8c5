package constants

import "time"

// App Store Connect hard limits per field.
var FieldLimits = struct {
	WhatsNew        int
	Description     int
	PromotionalText int
	Keywords        int
}{
	WhatsNew:        4000,
	Description:     4000,
	PromotionalText: 170,
	Keywords:        100,
}

var TranslationConfig = struct {
	DefaultMaxRetries     int
	MaxTokens             int
	NoConsiderations      string
	SkippedConsiderations string
	ResponsePreviewLength int
	SourceFolder          string
	AuditFileName         string
	RequestTimeout        time.Duration
}{
	DefaultMaxRetries:     2,
	MaxTokens:             4096,
	NoConsiderations:      "No considerations provided",
	SkippedConsiderations: "Existing translation (skipped)",
	ResponsePreviewLength: 500,
	SourceFolder:          "en",
	AuditFileName:         "full_translation.json",
	RequestTimeout:        120 * time.Second,
}

var ProviderDefaults = struct {
	Provider         string
	ClaudeModel      string
	ClaudeAPIURL     string
	ClaudeAPIVersion string
	GeminiModel      string
	OpenAIModel      string
}{
	Provider:         "claude",
	ClaudeModel:      "claude-sonnet-4-20250514",
	ClaudeAPIURL:     "https://api.anthropic.com/v1/messages",
	ClaudeAPIVersion: "2023-06-01",
	GeminiModel:      "gemini-2.5-flash",
	OpenAIModel:      "gpt-4.1",
}

var AppStoreConfig = struct {
	BaseURL       string
	Audience      string
	TokenLifetime time.Duration
	Timeout       time.Duration
	PageLimit     int
}{
	BaseURL:       "https://api.appstoreconnect.apple.com/v1",
	Audience:      "appstoreconnect-v1",
	TokenLifetime: 20 * time.Minute, // Apple rejects tokens living longer than 20 minutes
	Timeout:       30 * time.Second,
	PageLimit:     200,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3 consecutive transport failures open the circuit
	ResetTimeout:     30 * time.Second, // probe again after 30s
}

var MemoryConfig = struct {
	KeyPrefix  string
	DefaultTTL time.Duration
}{
	KeyPrefix:  "l10n:tm:",
	DefaultTTL: 30 * 24 * time.Hour,
}

var ReportLimits = struct {
	FailureReason  int
	Considerations int
}{
	FailureReason:  80,
	Considerations: 100,
}
