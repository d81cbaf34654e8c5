package campaign

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
)

type LinkStatus string

const (
	LinkUpdated          LinkStatus = "updated"
	LinkAlreadyLocalized LinkStatus = "already localized"
	LinkMissingFile      LinkStatus = "desc.txt not found"
	LinkNoURLs           LinkStatus = "no URLs found"
)

type LinkResult struct {
	Locale  string
	Status  LinkStatus
	Privacy string
	Terms   string
}

// LocalizeURL inserts folder before the last path segment of base.
func LocalizeURL(base, folder string) string {
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return base
	}
	return base[:idx] + "/" + folder + base[idx:]
}

// FixLinks rewrites the privacy and terms URLs inside every translated
// description so they point at the locale's own page. It does nothing when
// either base URL is empty.
func FixLinks(store *Store, privacyURL, termsURL string, logger *zap.Logger) ([]LinkResult, error) {
	if privacyURL == "" || termsURL == "" {
		logger.Warn("Skipping link fix: BASE_PRIVACY_URL or BASE_TERMS_URL not configured")
		return nil, nil
	}

	results := make([]LinkResult, 0)
	for _, loc := range store.TargetLocales() {
		result := LinkResult{
			Locale:  loc.FolderName,
			Privacy: LocalizeURL(privacyURL, loc.FolderName),
			Terms:   LocalizeURL(termsURL, loc.FolderName),
		}

		content, ok, err := store.ReadField(loc.FolderName, domain.FieldDescription)
		if err != nil {
			return results, err
		}
		if !ok {
			result.Status = LinkMissingFile
			results = append(results, result)
			continue
		}

		updated := replaceOutsideLocalized(content, privacyURL, result.Privacy)
		updated = replaceOutsideLocalized(updated, termsURL, result.Terms)

		switch {
		case updated != content:
			if err := store.WriteField(loc.FolderName, domain.FieldDescription, updated); err != nil {
				return results, err
			}
			result.Status = LinkUpdated
		case strings.Contains(content, result.Privacy) && strings.Contains(content, result.Terms):
			result.Status = LinkAlreadyLocalized
		default:
			result.Status = LinkNoURLs
		}

		logger.Info("Link fix",
			zap.String("locale", loc.FolderName),
			zap.String("status", string(result.Status)),
		)
		results = append(results, result)
	}

	return results, nil
}

// replaceOutsideLocalized swaps base for localized without touching
// occurrences that are already localized, so the fix can run repeatedly.
func replaceOutsideLocalized(content, base, localized string) string {
	const marker = "\x00localized\x00"
	protected := strings.ReplaceAll(content, localized, marker)
	protected = strings.ReplaceAll(protected, base, localized)
	return strings.ReplaceAll(protected, marker, localized)
}
