package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/appstore"
	"github.com/kapu/localization-connect-go/internal/campaign"
	"github.com/kapu/localization-connect-go/internal/config"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/prompt"
	"github.com/kapu/localization-connect-go/internal/service/ai"
	"github.com/kapu/localization-connect-go/internal/service/cache"
	"github.com/kapu/localization-connect-go/internal/service/database"
	"github.com/kapu/localization-connect-go/internal/translation"
)

// Container bundles the services shared by every command. Heavy clients
// (model vendors, App Store Connect) are built on demand by the command that
// needs them, so translate never requires App Store credentials and sync
// never requires an LLM key.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Locales *domain.LocaleTable
	Store   *campaign.Store
	RunID   string

	history *database.RunHistory
	closers []func()
}

// Build assembles the locale tree and the optional run history.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	locales, err := domain.LoadLocaleTable(cfg.Paths.LocalesFile)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Locales: locales,
		Store:   campaign.NewStore(cfg.Paths.RootDir, locales, logger),
		RunID:   runID,
	}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if cfg.Postgres.Enabled() {
		postgresSvc, pgErr := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			logger.Warn("Run history disabled", zap.Error(pgErr))
		} else {
			c.closers = append(c.closers, func() {
				_ = postgresSvc.Close()
			})
			history := database.NewRunHistory(postgresSvc, logger)
			if schemaErr := history.EnsureSchema(ctx); schemaErr != nil {
				logger.Warn("Run history disabled", zap.Error(schemaErr))
			} else {
				c.history = history
			}
		}
	}

	return c, nil
}

// NewCampaign wires the selected model provider, the retry loop and the
// optional translation memory.
func (c *Container) NewCampaign(ctx context.Context) (*campaign.Campaign, error) {
	cfg := c.Config
	if err := cfg.ValidateTranslation(); err != nil {
		return nil, err
	}

	provider, err := ai.NewProvider(ctx, cfg, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model provider: %w", err)
	}
	modelManager := ai.NewModelManager(provider, c.Logger)
	c.Logger.Info("Translation provider ready", zap.String("provider", modelManager.ProviderName()))

	translator := translation.NewTranslator(modelManager, prompt.NewPromptBuilder(), translation.AppContext{
		Name:        cfg.App.Name,
		Description: cfg.App.Description,
		BrandVoice:  cfg.App.BrandVoice,
	}, c.Logger)

	var memory campaign.Memory
	if cfg.Redis.Enabled() {
		tm, err := cache.NewTranslationMemory(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, c.Logger)
		if err != nil {
			c.Logger.Warn("Translation memory disabled", zap.Error(err))
		} else {
			memory = tm
			c.closers = append(c.closers, func() {
				_ = tm.Close()
			})
		}
	}

	return campaign.New(c.Store, translator, memory, cfg.Translation.MaxRetries, c.Logger), nil
}

// NewSyncer builds the App Store Connect client for the given platforms.
func (c *Container) NewSyncer(platforms ...domain.Platform) (*appstore.Syncer, error) {
	cfg := c.Config
	if err := cfg.ValidateSync(platforms...); err != nil {
		return nil, err
	}

	key, err := appstore.LoadPrivateKey(cfg.AppStore.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	tokens := appstore.NewTokenSource(cfg.AppStore.KeyID, cfg.AppStore.IssuerID, key)
	client := appstore.NewClient(cfg.AppStore.BaseURL, tokens, c.Logger)
	return appstore.NewSyncer(client, c.Locales, c.Logger), nil
}

// SyncTargets pairs each requested version with its platform's app id.
func (c *Container) SyncTargets(iosVersion, macVersion string) []appstore.Target {
	targets := make([]appstore.Target, 0, 2)
	if iosVersion != "" {
		targets = append(targets, appstore.Target{
			Platform:      domain.PlatformIOS,
			AppID:         c.Config.AppIDFor(domain.PlatformIOS),
			VersionString: iosVersion,
		})
	}
	if macVersion != "" {
		targets = append(targets, appstore.Target{
			Platform:      domain.PlatformMacOS,
			AppID:         c.Config.AppIDFor(domain.PlatformMacOS),
			VersionString: macVersion,
		})
	}
	return targets
}

func (c *Container) RecordCampaign(ctx context.Context, report *domain.CampaignReport) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordCampaign(ctx, c.RunID, report); err != nil {
		c.Logger.Warn("Failed to record campaign history", zap.Error(err))
	}
}

func (c *Container) RecordSync(ctx context.Context, results []appstore.PlatformResult) {
	if c.history == nil {
		return
	}
	for _, r := range results {
		if len(r.Outcomes) == 0 {
			continue
		}
		if err := c.history.RecordSync(ctx, c.RunID, r.Target.Platform, r.Outcomes); err != nil {
			c.Logger.Warn("Failed to record sync history", zap.Error(err), zap.String("platform", r.Target.Platform.String()))
		}
	}
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
