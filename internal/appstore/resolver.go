package appstore

import (
	"context"

	"github.com/kapu/localization-connect-go/internal/domain"
)

// API is the subset of App Store Connect the sync needs. *Client
// implements it.
type API interface {
	FindVersion(ctx context.Context, appID string, platform domain.Platform, versionString string) (*domain.AppVersion, error)
	ListLocalizations(ctx context.Context, versionID string) ([]domain.RemoteLocalizationRecord, error)
	CreateLocalization(ctx context.Context, versionID, localeCode string) (string, error)
	UpdateLocalization(ctx context.Context, localizationID string, fields map[domain.FieldKey]string) error
}

// Resolver maps human identifiers (app, platform, version string, locale
// code) to remote ids. Nothing is cached between calls.
type Resolver struct {
	api API
}

func NewResolver(api API) *Resolver {
	return &Resolver{api: api}
}

// ResolveVersion returns the version id or *errors.RemoteNotFoundError.
func (r *Resolver) ResolveVersion(ctx context.Context, appID string, platform domain.Platform, versionString string) (string, error) {
	version, err := r.api.FindVersion(ctx, appID, platform, versionString)
	if err != nil {
		return "", err
	}
	return version.ID, nil
}

// ListLocalizations returns locale code to remote id.
func (r *Resolver) ListLocalizations(ctx context.Context, versionID string) (map[string]string, error) {
	records, err := r.api.ListLocalizations(ctx, versionID)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.LocaleCode == "" {
			continue
		}
		byCode[rec.LocaleCode] = rec.RemoteID
	}
	return byCode, nil
}
