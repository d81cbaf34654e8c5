package campaign

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/translation"
	"github.com/kapu/localization-connect-go/internal/util"
)

// Translator is the retry loop the campaign drives per field.
type Translator interface {
	Translate(ctx context.Context, job translation.Job) (*translation.Result, error)
}

// Memory is an optional store of accepted translations.
type Memory interface {
	Lookup(ctx context.Context, sourceText, locale string, field domain.FieldKey, limit int) (domain.AuditEntry, bool, error)
	Store(ctx context.Context, sourceText, locale string, field domain.FieldKey, limit int, entry domain.AuditEntry) error
}

// Options narrows a run. Empty filters select everything.
type Options struct {
	Force        bool
	LocaleFilter string
	FieldFilter  domain.FieldKey
}

// ParseOnly turns "de" or "de/promo.txt" into locale and field filters.
func ParseOnly(only string) (string, domain.FieldKey, error) {
	only = strings.TrimSpace(only)
	if only == "" {
		return "", "", nil
	}

	locale, file, hasFile := strings.Cut(only, "/")
	if !hasFile {
		return locale, "", nil
	}

	field, ok := domain.ParseFieldKey(file)
	if !ok {
		return locale, "", fmt.Errorf("unknown file %q", file)
	}
	return locale, field, nil
}

type Campaign struct {
	store      *Store
	translator Translator
	memory     Memory
	maxRetries int
	logger     *zap.Logger
}

// New builds a campaign. memory may be nil.
func New(store *Store, translator Translator, memory Memory, maxRetries int, logger *zap.Logger) *Campaign {
	return &Campaign{
		store:      store,
		translator: translator,
		memory:     memory,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Run translates every selected source field into every selected locale.
// Field failures are recorded in the report and never stop the run; only a
// cancelled context ends it early.
func (c *Campaign) Run(ctx context.Context, sources []domain.SourceField, locales []domain.Locale, opts Options) *domain.CampaignReport {
	report := &domain.CampaignReport{}

	locales = filterLocales(locales, opts.LocaleFilter)
	sort.Slice(locales, func(i, j int) bool {
		return locales[i].FolderName < locales[j].FolderName
	})
	if opts.LocaleFilter != "" && len(locales) == 0 {
		c.logger.Warn("Locale not found", zap.String("locale", opts.LocaleFilter))
		return report
	}

	sources = filterSources(sources, opts.FieldFilter)
	if opts.FieldFilter != "" && len(sources) == 0 {
		c.logger.Warn("File not found in sources", zap.String("file", opts.FieldFilter.FileName()))
		return report
	}

	for _, loc := range locales {
		if ctx.Err() != nil {
			c.logger.Warn("Campaign cancelled", zap.Error(ctx.Err()))
			return report
		}
		c.runLocale(ctx, loc, sources, opts.Force, report)
	}

	return report
}

func (c *Campaign) runLocale(ctx context.Context, loc domain.Locale, sources []domain.SourceField, force bool, report *domain.CampaignReport) {
	c.logger.Info("Translating locale",
		zap.String("locale", loc.FolderName),
		zap.String("language", loc.DisplayName),
		zap.Bool("force", force),
	)

	audit := make(map[domain.FieldKey]domain.AuditEntry, len(sources))
	anyTranslated := false

	for _, source := range sources {
		if ctx.Err() != nil {
			break
		}

		var outcome domain.TranslationOutcome
		var entry *domain.AuditEntry
		recovered := panics.Try(func() {
			outcome, entry = c.processField(ctx, loc, source, force)
		})
		if recovered != nil {
			c.logger.Error("Field processing panicked",
				zap.String("locale", loc.FolderName),
				zap.String("field", source.Key.String()),
				zap.String("panic", recovered.String()),
			)
			outcome, entry = c.fail(loc, source.Key, recovered.AsError())
		}

		report.Add(outcome)
		if entry != nil {
			audit[source.Key] = *entry
		}
		if outcome.Status == domain.OutcomeTranslated {
			anyTranslated = true
		}
	}

	if anyTranslated || force {
		if err := c.store.WriteAudit(loc.FolderName, audit); err != nil {
			c.logger.Error("Failed to write audit record", zap.String("locale", loc.FolderName), zap.Error(err))
			return
		}
		c.logger.Info("Saved audit record", zap.String("locale", loc.FolderName))
	}
}

func (c *Campaign) processField(ctx context.Context, loc domain.Locale, source domain.SourceField, force bool) (domain.TranslationOutcome, *domain.AuditEntry) {
	path := c.store.FieldPath(loc.FolderName, source.Key)

	if !force {
		needs, reason := NeedsTranslation(path, source.CharLimit)
		if !needs {
			c.logger.Info("Skipping field",
				zap.String("locale", loc.FolderName),
				zap.String("file", source.Key.FileName()),
				zap.String("reason", reason),
			)
			outcome := domain.TranslationOutcome{
				Locale:         loc.FolderName,
				Field:          source.Key,
				Status:         domain.OutcomeSkipped,
				Reason:         reason,
				Considerations: constants.TranslationConfig.SkippedConsiderations,
			}
			existing, ok, err := c.store.ReadField(loc.FolderName, source.Key)
			if err != nil || !ok {
				return outcome, nil
			}
			outcome.FinalText = existing
			return outcome, &domain.AuditEntry{
				Translation:    existing,
				Considerations: constants.TranslationConfig.SkippedConsiderations,
			}
		}

		c.logger.Info("Translating field",
			zap.String("locale", loc.FolderName),
			zap.String("file", source.Key.FileName()),
			zap.String("reason", reason),
			zap.Int("limit", source.CharLimit),
		)

		if outcome, entry, ok := c.fromMemory(ctx, loc, source); ok {
			return outcome, entry
		}
	} else {
		c.logger.Info("Translating field",
			zap.String("locale", loc.FolderName),
			zap.String("file", source.Key.FileName()),
			zap.Int("limit", source.CharLimit),
		)
	}

	result, err := c.translator.Translate(ctx, translation.Job{
		Locale:     loc.FolderName,
		Field:      source.Key,
		SourceText: source.Text,
		LocaleName: loc.DisplayName,
		TextType:   source.Key.TextType(),
		CharLimit:  source.CharLimit,
		MaxRetries: c.maxRetries,
	})
	if err != nil {
		return c.fail(loc, source.Key, err)
	}

	return c.accept(ctx, loc, source, result.Translation, result.Considerations, len(result.Attempts), true)
}

// fromMemory reuses a remembered translation if it still fits the limit.
func (c *Campaign) fromMemory(ctx context.Context, loc domain.Locale, source domain.SourceField) (domain.TranslationOutcome, *domain.AuditEntry, bool) {
	if c.memory == nil {
		return domain.TranslationOutcome{}, nil, false
	}

	entry, ok, err := c.memory.Lookup(ctx, source.Text, loc.FolderName, source.Key, source.CharLimit)
	if err != nil {
		c.logger.Warn("Translation memory lookup failed", zap.Error(err))
		return domain.TranslationOutcome{}, nil, false
	}
	if !ok || entry.Translation == "" || !translation.Validate(entry.Translation, source.CharLimit).OK {
		return domain.TranslationOutcome{}, nil, false
	}

	c.logger.Info("Translation memory hit",
		zap.String("locale", loc.FolderName),
		zap.String("file", source.Key.FileName()),
	)
	outcome, audit := c.accept(ctx, loc, source, entry.Translation, entry.Considerations, 0, false)
	return outcome, audit, true
}

func (c *Campaign) accept(ctx context.Context, loc domain.Locale, source domain.SourceField, text, considerations string, attempts int, remember bool) (domain.TranslationOutcome, *domain.AuditEntry) {
	if considerations == "" {
		considerations = constants.TranslationConfig.NoConsiderations
	}

	if err := c.store.WriteField(loc.FolderName, source.Key, text); err != nil {
		return c.fail(loc, source.Key, err)
	}

	c.logger.Info("Saved translation",
		zap.String("locale", loc.FolderName),
		zap.String("file", source.Key.FileName()),
		zap.Int("chars", util.CharCount(text)),
		zap.String("considerations", util.TruncateString(considerations, constants.ReportLimits.Considerations)),
	)

	entry := domain.AuditEntry{Translation: text, Considerations: considerations}
	if remember && c.memory != nil {
		if err := c.memory.Store(ctx, source.Text, loc.FolderName, source.Key, source.CharLimit, entry); err != nil {
			c.logger.Warn("Translation memory store failed", zap.Error(err))
		}
	}

	return domain.TranslationOutcome{
		Locale:         loc.FolderName,
		Field:          source.Key,
		FinalText:      text,
		Considerations: considerations,
		Status:         domain.OutcomeTranslated,
		Attempts:       attempts,
	}, &entry
}

// fail records a failed field and leaves an empty placeholder file behind.
func (c *Campaign) fail(loc domain.Locale, field domain.FieldKey, err error) (domain.TranslationOutcome, *domain.AuditEntry) {
	c.logger.Error("Translation failed",
		zap.String("locale", loc.FolderName),
		zap.String("file", field.FileName()),
		zap.Error(err),
	)

	if writeErr := c.store.WriteField(loc.FolderName, field, ""); writeErr != nil {
		c.logger.Warn("Failed to write placeholder", zap.String("locale", loc.FolderName), zap.Error(writeErr))
	}

	considerations := "Error: " + err.Error()
	outcome := domain.TranslationOutcome{
		Locale:         loc.FolderName,
		Field:          field,
		Status:         domain.OutcomeFailed,
		Reason:         util.TruncateString(err.Error(), constants.ReportLimits.FailureReason),
		Considerations: considerations,
	}
	return outcome, &domain.AuditEntry{Translation: "", Considerations: considerations}
}

func filterLocales(locales []domain.Locale, folder string) []domain.Locale {
	out := make([]domain.Locale, 0, len(locales))
	for _, loc := range locales {
		if folder == "" || loc.FolderName == folder {
			out = append(out, loc)
		}
	}
	return out
}

func filterSources(sources []domain.SourceField, field domain.FieldKey) []domain.SourceField {
	if field == "" {
		return sources
	}
	out := make([]domain.SourceField, 0, 1)
	for _, s := range sources {
		if s.Key == field {
			out = append(out, s)
		}
	}
	return out
}
