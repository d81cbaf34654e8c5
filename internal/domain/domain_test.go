package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldKeyAcceptsAliases(t *testing.T) {
	for input, want := range map[string]FieldKey{
		"new":              FieldWhatsNew,
		"desc.txt":         FieldDescription,
		" PROMO ":          FieldPromotionalText,
		"keywords":         FieldKeywords,
		"promotional_text": FieldPromotionalText,
	} {
		got, ok := ParseFieldKey(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := ParseFieldKey("subtitle")
	assert.False(t, ok)
}

func TestFieldDefaults(t *testing.T) {
	assert.Equal(t, 170, FieldPromotionalText.DefaultCharLimit())
	assert.Equal(t, 100, FieldKeywords.DefaultCharLimit())
	assert.Equal(t, "promotionalText", FieldPromotionalText.Attribute())
	assert.Equal(t, "new.txt", FieldWhatsNew.FileName())
}

func TestConversationAppendDoesNotMutate(t *testing.T) {
	base := NewConversation("translate")
	next := base.Append(Message{Role: RoleAssistant, Content: "draft"})

	assert.Len(t, base, 1)
	assert.Len(t, next, 2)
	assert.Equal(t, RoleAssistant, next[1].Role)
}

func TestLoadLocaleTableFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`locales:
  - folder: fr
    code: fr-FR
    name: French
  - folder: en
    code: en-US
  - folder: de
    code: de-DE
    name: German
`), 0o644))

	table, err := LoadLocaleTable(path)
	require.NoError(t, err)

	all := table.All()
	require.Len(t, all, 3)
	assert.Equal(t, "de", all[0].FolderName)

	loc, ok := table.ByCode("en-US")
	require.True(t, ok)
	assert.Equal(t, "en-US", loc.DisplayName)
	assert.Equal(t, "French", table.DisplayNameFor("fr-FR"))
	assert.Equal(t, "xx", table.DisplayNameFor("xx"))
}

func TestLoadLocaleTableRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locales:\n  - {folder: de, code: de-DE}\n  - {folder: de, code: de-AT}\n"), 0o644))

	_, err := LoadLocaleTable(path)
	assert.ErrorContains(t, err, "duplicate folder")
}

func TestLoadLocaleTableDefault(t *testing.T) {
	table, err := LoadLocaleTable("")
	require.NoError(t, err)

	loc, ok := table.ByFolder("zh-CN")
	require.True(t, ok)
	assert.Equal(t, "zh-Hans", loc.PlatformCode)
}
