package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

type Config struct {
	AppStore    AppStoreConfig
	Translation TranslationConfig
	Claude      ClaudeConfig
	Gemini      GeminiConfig
	OpenAI      OpenAIConfig
	App         AppConfig
	Paths       PathsConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	Logging     LoggingConfig
}

type AppStoreConfig struct {
	KeyID          string
	IssuerID       string
	PrivateKeyPath string
	IOSAppID       string
	MacAppID       string
	BaseURL        string
}

type TranslationConfig struct {
	Provider   string
	MaxRetries int
	MaxTokens  int
}

type ClaudeConfig struct {
	APIKey string
	Model  string
	APIURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// AppConfig feeds the translation system prompt and fix-links.
type AppConfig struct {
	Name           string
	Description    string
	BrandVoice     string
	BasePrivacyURL string
	BaseTermsURL   string
}

type PathsConfig struct {
	RootDir     string
	LocalesFile string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the translation memory should be used.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Enabled reports whether run history should be recorded.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads envPath (or .env in the working directory when empty) and
// builds the configuration from the environment. A missing .env file is not
// an error; an explicit envPath that cannot be read is.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		AppStore: AppStoreConfig{
			KeyID:          getEnv("APP_STORE_KEY_ID", ""),
			IssuerID:       getEnv("APP_STORE_ISSUER_ID", ""),
			PrivateKeyPath: getEnv("APP_STORE_PRIVATE_KEY_PATH", ""),
			IOSAppID:       getEnv("IOS_APP_ID", ""),
			MacAppID:       getEnv("MAC_APP_ID", ""),
			BaseURL:        getEnv("APP_STORE_BASE_URL", constants.AppStoreConfig.BaseURL),
		},
		Translation: TranslationConfig{
			Provider:   strings.ToLower(getEnv("TRANSLATION_PROVIDER", constants.ProviderDefaults.Provider)),
			MaxRetries: getEnvInt("TRANSLATION_MAX_RETRIES", constants.TranslationConfig.DefaultMaxRetries),
			MaxTokens:  getEnvInt("TRANSLATION_MAX_TOKENS", constants.TranslationConfig.MaxTokens),
		},
		Claude: ClaudeConfig{
			APIKey: getEnv("CLAUDE_API_KEY", ""),
			Model:  getEnv("CLAUDE_MODEL", constants.ProviderDefaults.ClaudeModel),
			APIURL: getEnv("CLAUDE_API_URL", constants.ProviderDefaults.ClaudeAPIURL),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.ProviderDefaults.GeminiModel),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", constants.ProviderDefaults.OpenAIModel),
		},
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Your App"),
			Description:    getEnv("APP_DESCRIPTION", "A great application."),
			BrandVoice:     getEnv("BRAND_VOICE", "Professional and friendly."),
			BasePrivacyURL: getEnv("BASE_PRIVACY_URL", ""),
			BaseTermsURL:   getEnv("BASE_TERMS_URL", ""),
		},
		Paths: PathsConfig{
			RootDir:     getEnv("ROOT_DIR", "."),
			LocalesFile: getEnv("LOCALES_FILE", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvHours("TRANSLATION_MEMORY_TTL_HOURS", constants.MemoryConfig.DefaultTTL),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "localization"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "localization"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings every command depends on. Credentials are
// checked per command by ValidateTranslation and ValidateSync.
func (c *Config) Validate() error {
	if c.Translation.MaxRetries < 0 {
		return errors.NewConfigError("TRANSLATION_MAX_RETRIES must not be negative", "TRANSLATION_MAX_RETRIES")
	}
	switch c.Translation.Provider {
	case "claude", "gemini", "openai":
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown TRANSLATION_PROVIDER %q", c.Translation.Provider), "TRANSLATION_PROVIDER")
	}
	return nil
}

// ValidateTranslation requires the API key of the selected provider.
func (c *Config) ValidateTranslation() error {
	switch c.Translation.Provider {
	case "claude":
		if c.Claude.APIKey == "" {
			return errors.NewConfigError("CLAUDE_API_KEY is required for translation", "CLAUDE_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return errors.NewConfigError("GEMINI_API_KEY is required for translation", "GEMINI_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return errors.NewConfigError("OPENAI_API_KEY is required for translation", "OPENAI_API_KEY")
		}
	}
	return nil
}

// ValidateSync requires the App Store Connect key material and an app ID
// for each requested platform.
func (c *Config) ValidateSync(platforms ...domain.Platform) error {
	if c.AppStore.KeyID == "" {
		return errors.NewConfigError("APP_STORE_KEY_ID is required for sync", "APP_STORE_KEY_ID")
	}
	if c.AppStore.IssuerID == "" {
		return errors.NewConfigError("APP_STORE_ISSUER_ID is required for sync", "APP_STORE_ISSUER_ID")
	}
	if c.AppStore.PrivateKeyPath == "" {
		return errors.NewConfigError("APP_STORE_PRIVATE_KEY_PATH is required for sync", "APP_STORE_PRIVATE_KEY_PATH")
	}
	for _, p := range platforms {
		if c.AppIDFor(p) == "" {
			field := "IOS_APP_ID"
			if p == domain.PlatformMacOS {
				field = "MAC_APP_ID"
			}
			return errors.NewConfigError(fmt.Sprintf("%s is required to sync %s", field, p), field)
		}
	}
	return nil
}

func (c *Config) AppIDFor(p domain.Platform) string {
	switch p {
	case domain.PlatformIOS:
		return c.AppStore.IOSAppID
	case domain.PlatformMacOS:
		return c.AppStore.MacAppID
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvHours(key string, defaultValue time.Duration) time.Duration {
	if hours := getEnvInt(key, 0); hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return defaultValue
}
