package campaign

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/de/privacy", LocalizeURL("https://example.com/privacy", "de"))
	assert.Equal(t, "https://example.com/legal/pt-BR/terms", LocalizeURL("https://example.com/legal/terms", "pt-BR"))
	assert.Equal(t, "privacy", LocalizeURL("privacy", "de"))
}

func TestFixLinks(t *testing.T) {
	root := t.TempDir()
	const privacy = "https://example.com/privacy"
	const terms = "https://example.com/terms"

	writeFile(t, root, "en", "desc.txt", "Privacy: "+privacy+"\nTerms: "+terms)
	writeFile(t, root, "de", "desc.txt", "Datenschutz: "+privacy+"\nAGB: "+terms)
	writeFile(t, root, "fr", "desc.txt", "Confidentialité: https://example.com/fr/privacy\nCGU: https://example.com/fr/terms")
	writeFile(t, root, "it", "desc.txt", "Nessun link.")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ja"), 0o755))

	results, err := FixLinks(newStore(root), privacy, terms, zap.NewNop())
	require.NoError(t, err)

	statuses := map[string]LinkStatus{}
	for _, r := range results {
		statuses[r.Locale] = r.Status
	}
	assert.Equal(t, map[string]LinkStatus{
		"de": LinkUpdated,
		"fr": LinkAlreadyLocalized,
		"it": LinkNoURLs,
		"ja": LinkMissingFile,
	}, statuses)

	assert.Equal(t, "Datenschutz: https://example.com/de/privacy\nAGB: https://example.com/de/terms", readFile(t, root, "de", "desc.txt"))
	assert.Equal(t, "Privacy: "+privacy+"\nTerms: "+terms, readFile(t, root, "en", "desc.txt"), "source is never rewritten")

	again, err := FixLinks(newStore(root), privacy, terms, zap.NewNop())
	require.NoError(t, err)
	for _, r := range again {
		if r.Locale == "de" {
			assert.Equal(t, LinkAlreadyLocalized, r.Status)
		}
	}
}

func TestFixLinksRequiresBothURLs(t *testing.T) {
	results, err := FixLinks(newStore(t.TempDir()), "https://example.com/privacy", "", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, results)
}
