package appstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// fakeAPI is an in-memory App Store Connect holding one app.
type fakeAPI struct {
	versions      map[domain.Platform]map[string]string
	localizations map[string]map[string]*domain.RemoteLocalizationRecord
	failUpdate    map[string]error
	creates       int
	updates       int
	nextID        int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		versions: map[domain.Platform]map[string]string{
			domain.PlatformIOS: {"3.0": "ios-v3"},
		},
		localizations: map[string]map[string]*domain.RemoteLocalizationRecord{
			"ios-v3": {},
		},
		failUpdate: map[string]error{},
	}
}

func (f *fakeAPI) FindVersion(_ context.Context, _ string, platform domain.Platform, versionString string) (*domain.AppVersion, error) {
	id, ok := f.versions[platform][versionString]
	if !ok {
		return nil, errors.NewRemoteNotFoundError(fmt.Sprintf("%s version", platform), versionString)
	}
	return &domain.AppVersion{ID: id, VersionString: versionString}, nil
}

func (f *fakeAPI) ListLocalizations(_ context.Context, versionID string) ([]domain.RemoteLocalizationRecord, error) {
	out := make([]domain.RemoteLocalizationRecord, 0)
	for _, rec := range f.localizations[versionID] {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeAPI) CreateLocalization(_ context.Context, versionID, localeCode string) (string, error) {
	f.creates++
	f.nextID++
	id := fmt.Sprintf("L%d", f.nextID)
	f.localizations[versionID][localeCode] = &domain.RemoteLocalizationRecord{
		RemoteID:      id,
		LocaleCode:    localeCode,
		CurrentFields: map[domain.FieldKey]string{},
	}
	return id, nil
}

func (f *fakeAPI) UpdateLocalization(_ context.Context, localizationID string, fields map[domain.FieldKey]string) error {
	f.updates++
	for _, locs := range f.localizations {
		for code, rec := range locs {
			if rec.RemoteID != localizationID {
				continue
			}
			if err := f.failUpdate[code]; err != nil {
				return err
			}
			for k, v := range fields {
				rec.CurrentFields[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("localization %s not found", localizationID)
}

func (f *fakeAPI) seed(versionID, code, id string, fields map[domain.FieldKey]string) {
	f.localizations[versionID][code] = &domain.RemoteLocalizationRecord{RemoteID: id, LocaleCode: code, CurrentFields: fields}
}

func newTestSyncer(api API) *Syncer {
	return NewSyncer(api, domain.NewLocaleTable(domain.DefaultLocales()), zap.NewNop())
}

func TestReconcile(t *testing.T) {
	desired := domain.DesiredState{
		"fr-FR": {domain.FieldDescription: "Desc", domain.FieldKeywords: "mots"},
		"de-DE": {domain.FieldDescription: "Beschreibung"},
	}
	existing := map[string]string{"de-DE": "L-de"}

	plan := Reconcile(desired, existing, domain.NewFieldSet(domain.FieldKeywords, domain.FieldDescription))

	require.Len(t, plan, 2)
	assert.Equal(t, domain.SyncPlanEntry{
		LocaleCode:    "de-DE",
		Action:        domain.SyncUpdate,
		RemoteID:      "L-de",
		FieldsToWrite: map[domain.FieldKey]string{domain.FieldDescription: "Beschreibung"},
	}, plan[0])
	assert.Equal(t, domain.SyncCreateThenUpdate, plan[1].Action)
	assert.Len(t, plan[1].FieldsToWrite, 2)

	keywordsOnly := Reconcile(desired, existing, domain.NewFieldSet(domain.FieldKeywords))
	assert.Empty(t, keywordsOnly[0].FieldsToWrite)
	assert.Equal(t, map[domain.FieldKey]string{domain.FieldKeywords: "mots"}, keywordsOnly[1].FieldsToWrite)
}

func TestSyncCreatesMissingAndUpdatesExisting(t *testing.T) {
	api := newFakeAPI()
	api.seed("ios-v3", "de-DE", "L-de", map[domain.FieldKey]string{domain.FieldPromotionalText: "alt"})

	desired := domain.DesiredState{
		"de-DE": {domain.FieldPromotionalText: "neu"},
		"fr-FR": {domain.FieldPromotionalText: "nouveau"},
	}

	outcomes, err := newTestSyncer(api).Sync(context.Background(), desired, "ios-v3", domain.NewFieldSet(domain.FieldPromotionalText))
	require.NoError(t, err)

	assert.Equal(t, 1, api.creates)
	assert.Equal(t, 2, api.updates)
	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.SyncUpdate, outcomes[0].Action)
	assert.Equal(t, domain.SyncCreateThenUpdate, outcomes[1].Action)
	assert.True(t, outcomes[1].OK())
	assert.Equal(t, []domain.FieldKey{domain.FieldPromotionalText}, outcomes[1].Fields)

	assert.Equal(t, "neu", api.localizations["ios-v3"]["de-DE"].CurrentFields[domain.FieldPromotionalText])
	assert.Equal(t, "nouveau", api.localizations["ios-v3"]["fr-FR"].CurrentFields[domain.FieldPromotionalText])
}

func TestSyncIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	desired := domain.DesiredState{
		"ja": {domain.FieldKeywords: "メモ", domain.FieldWhatsNew: "修正"},
	}
	syncer := newTestSyncer(api)
	all := domain.NewFieldSet(domain.AllFields...)

	_, err := syncer.Sync(context.Background(), desired, "ios-v3", all)
	require.NoError(t, err)
	first := fmt.Sprint(api.localizations["ios-v3"]["ja"].CurrentFields)

	outcomes, err := syncer.Sync(context.Background(), desired, "ios-v3", all)
	require.NoError(t, err)

	assert.Equal(t, 1, api.creates, "second run must not create again")
	assert.Equal(t, domain.SyncUpdate, outcomes[0].Action)
	assert.Equal(t, first, fmt.Sprint(api.localizations["ios-v3"]["ja"].CurrentFields))
}

func TestSyncWritesOnlyRequestedFields(t *testing.T) {
	api := newFakeAPI()
	api.seed("ios-v3", "it", "L-it", map[domain.FieldKey]string{domain.FieldDescription: "remote desc"})

	desired := domain.DesiredState{"it": {domain.FieldDescription: "local desc", domain.FieldKeywords: "note"}}
	_, err := newTestSyncer(api).Sync(context.Background(), desired, "ios-v3", domain.NewFieldSet(domain.FieldKeywords))
	require.NoError(t, err)

	fields := api.localizations["ios-v3"]["it"].CurrentFields
	assert.Equal(t, "remote desc", fields[domain.FieldDescription])
	assert.Equal(t, "note", fields[domain.FieldKeywords])
}

func TestSyncIsolatesLocaleFailures(t *testing.T) {
	api := newFakeAPI()
	api.seed("ios-v3", "de-DE", "L-de", map[domain.FieldKey]string{})
	api.seed("ios-v3", "ko", "L-ko", map[domain.FieldKey]string{})
	api.failUpdate["de-DE"] = errors.NewTransportError("409 conflict", "appstore", "update_localization", 409, nil)

	desired := domain.DesiredState{
		"de-DE": {domain.FieldKeywords: "x"},
		"ko":    {domain.FieldKeywords: "y"},
	}
	outcomes, err := newTestSyncer(api).Sync(context.Background(), desired, "ios-v3", domain.NewFieldSet(domain.AllFields...))
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	var syncErr *errors.FieldSyncError
	require.True(t, stderrors.As(outcomes[0].Err, &syncErr))
	assert.Equal(t, "de-DE", syncErr.Locale)
	assert.Equal(t, "update", syncErr.Operation)
	assert.True(t, outcomes[1].OK())
	assert.Equal(t, "y", api.localizations["ios-v3"]["ko"].CurrentFields[domain.FieldKeywords])
}

func TestSyncSkipsUpdateWithoutFields(t *testing.T) {
	api := newFakeAPI()
	api.seed("ios-v3", "ru", "L-ru", map[domain.FieldKey]string{})

	desired := domain.DesiredState{"ru": {domain.FieldDescription: "описание"}}
	outcomes, err := newTestSyncer(api).Sync(context.Background(), desired, "ios-v3", domain.NewFieldSet(domain.FieldKeywords))
	require.NoError(t, err)

	assert.Equal(t, 0, api.updates)
	assert.True(t, outcomes[0].OK())
	assert.Empty(t, outcomes[0].Fields)
}

func TestPublishSkipsPlatformWithoutVersion(t *testing.T) {
	api := newFakeAPI()
	desired := domain.DesiredState{"en-US": {domain.FieldWhatsNew: "Fixes"}}

	results := newTestSyncer(api).Publish(context.Background(), []Target{
		{Platform: domain.PlatformIOS, AppID: "1", VersionString: "3.0"},
		{Platform: domain.PlatformMacOS, AppID: "2", VersionString: "9.9"},
	}, desired, domain.NewFieldSet(domain.AllFields...))

	require.Len(t, results, 2)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, "ios-v3", results[0].VersionID)
	require.Len(t, results[0].Outcomes, 1)
	assert.True(t, results[0].Outcomes[0].OK())

	assert.True(t, results[1].Skipped)
	var notFound *errors.RemoteNotFoundError
	assert.True(t, stderrors.As(results[1].Err, &notFound))

	lines := SummaryLines(results)
	assert.Contains(t, lines, "  - en-US: create_then_update (1 fields)")
}

type panickyAPI struct {
	*fakeAPI
}

func (p panickyAPI) CreateLocalization(context.Context, string, string) (string, error) {
	panic("boom")
}

func TestSyncRecoversFromPanics(t *testing.T) {
	api := newFakeAPI()
	api.seed("ios-v3", "it", "L-it", map[domain.FieldKey]string{})

	desired := domain.DesiredState{
		"fr-FR": {domain.FieldKeywords: "a"},
		"it":    {domain.FieldKeywords: "b"},
	}
	outcomes, err := newTestSyncer(panickyAPI{api}).Sync(context.Background(), desired, "ios-v3", domain.NewFieldSet(domain.AllFields...))
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.Contains(t, outcomes[0].Err.Error(), "boom")
	assert.True(t, outcomes[1].OK())
}
