package appstore

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// Syncer pushes desired field content into one version's localizations.
type Syncer struct {
	api      API
	resolver *Resolver
	locales  *domain.LocaleTable
	logger   *zap.Logger
}

func NewSyncer(api API, locales *domain.LocaleTable, logger *zap.Logger) *Syncer {
	return &Syncer{
		api:      api,
		resolver: NewResolver(api),
		locales:  locales,
		logger:   logger,
	}
}

// Sync reconciles desired against the remote localizations of versionID and
// executes the plan locale by locale. A failing locale is recorded and the
// rest still run. The returned error covers only the initial listing.
func (s *Syncer) Sync(ctx context.Context, desired domain.DesiredState, versionID string, fields domain.FieldSet) ([]domain.SyncOutcome, error) {
	existing, err := s.resolver.ListLocalizations(ctx, versionID)
	if err != nil {
		return nil, err
	}

	plan := Reconcile(desired, existing, fields)
	outcomes := make([]domain.SyncOutcome, 0, len(plan))

	for _, entry := range plan {
		if ctx.Err() != nil {
			outcomes = append(outcomes, domain.SyncOutcome{
				LocaleCode: entry.LocaleCode,
				Action:     entry.Action,
				Err:        errors.NewFieldSyncError(entry.LocaleCode, "sync", ctx.Err()),
			})
			continue
		}

		var outcome domain.SyncOutcome
		recovered := panics.Try(func() {
			outcome = s.apply(ctx, versionID, entry)
		})
		if recovered != nil {
			outcome = domain.SyncOutcome{
				LocaleCode: entry.LocaleCode,
				Action:     entry.Action,
				RemoteID:   entry.RemoteID,
				Err:        errors.NewFieldSyncError(entry.LocaleCode, "sync", recovered.AsError()),
			}
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (s *Syncer) apply(ctx context.Context, versionID string, entry domain.SyncPlanEntry) domain.SyncOutcome {
	outcome := domain.SyncOutcome{
		LocaleCode: entry.LocaleCode,
		Action:     entry.Action,
		RemoteID:   entry.RemoteID,
	}
	logger := s.logger.With(
		zap.String("locale", entry.LocaleCode),
		zap.String("language", s.locales.DisplayNameFor(entry.LocaleCode)),
	)

	if entry.Action == domain.SyncCreateThenUpdate {
		remoteID, err := s.api.CreateLocalization(ctx, versionID, entry.LocaleCode)
		if err != nil {
			logger.Error("Create localization failed", zap.Error(err))
			outcome.Err = errors.NewFieldSyncError(entry.LocaleCode, "create", err)
			return outcome
		}
		outcome.RemoteID = remoteID
		logger.Info("Created localization", zap.String("remote_id", remoteID))
	}

	if len(entry.FieldsToWrite) == 0 {
		logger.Info("No fields to update")
		return outcome
	}

	if err := s.api.UpdateLocalization(ctx, outcome.RemoteID, entry.FieldsToWrite); err != nil {
		logger.Error("Update localization failed", zap.Error(err))
		outcome.Err = errors.NewFieldSyncError(entry.LocaleCode, "update", err)
		return outcome
	}

	outcome.Fields = entry.SortedFields()
	logger.Info("Updated localization", zap.Int("fields", len(outcome.Fields)))
	return outcome
}

// Target is one platform upload: which app and which version string.
type Target struct {
	Platform      domain.Platform
	AppID         string
	VersionString string
}

type PlatformResult struct {
	Target    Target
	VersionID string
	Outcomes  []domain.SyncOutcome
	Skipped   bool
	Err       error
}

// Publish syncs every target in order. A missing version skips that
// platform; other platform errors are recorded and the next target runs.
func (s *Syncer) Publish(ctx context.Context, targets []Target, desired domain.DesiredState, fields domain.FieldSet) []PlatformResult {
	results := make([]PlatformResult, 0, len(targets))

	for _, target := range targets {
		result := PlatformResult{Target: target}
		logger := s.logger.With(
			zap.String("platform", target.Platform.String()),
			zap.String("version", target.VersionString),
		)
		logger.Info("Uploading localizations", zap.String("app_id", target.AppID))

		versionID, err := s.resolver.ResolveVersion(ctx, target.AppID, target.Platform, target.VersionString)
		if err != nil {
			var notFound *errors.RemoteNotFoundError
			if stderrors.As(err, &notFound) {
				logger.Warn("Version not found, skipping platform")
				result.Skipped = true
			} else {
				logger.Error("Platform error", zap.Error(err))
			}
			result.Err = err
			results = append(results, result)
			continue
		}
		result.VersionID = versionID

		outcomes, err := s.Sync(ctx, desired, versionID, fields)
		if err != nil {
			logger.Error("Platform error", zap.Error(err))
			result.Err = err
		}
		result.Outcomes = outcomes
		results = append(results, result)
	}

	return results
}

// SummaryLines renders per platform, per locale results.
func SummaryLines(results []PlatformResult) []string {
	lines := []string{"SYNC SUMMARY"}
	for _, r := range results {
		header := fmt.Sprintf("%s %s:", r.Target.Platform, r.Target.VersionString)
		switch {
		case r.Skipped:
			lines = append(lines, header+" skipped ("+r.Err.Error()+")")
			continue
		case r.Err != nil:
			lines = append(lines, header+" error: "+r.Err.Error())
			continue
		}
		lines = append(lines, header)
		for _, o := range r.Outcomes {
			if o.OK() {
				lines = append(lines, fmt.Sprintf("  - %s: %s (%d fields)", o.LocaleCode, o.Action, len(o.Fields)))
			} else {
				lines = append(lines, fmt.Sprintf("  - %s: %s failed: %v", o.LocaleCode, o.Action, o.Err))
			}
		}
	}
	return lines
}
