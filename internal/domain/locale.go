package domain

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Locale maps a folder on disk to an App Store Connect locale code.
type Locale struct {
	FolderName   string `yaml:"folder"`
	PlatformCode string `yaml:"code"`
	DisplayName  string `yaml:"name"`
}

// LocaleTable is the static folder/code mapping for one run.
type LocaleTable struct {
	locales []Locale
}

func DefaultLocales() []Locale {
	return []Locale{
		{FolderName: "en", PlatformCode: "en-US", DisplayName: "English (U.S.)"},
		{FolderName: "zh-CN", PlatformCode: "zh-Hans", DisplayName: "Chinese (Simplified)"},
		{FolderName: "zh-TW", PlatformCode: "zh-Hant", DisplayName: "Chinese (Traditional)"},
		{FolderName: "de", PlatformCode: "de-DE", DisplayName: "German"},
		{FolderName: "ja", PlatformCode: "ja", DisplayName: "Japanese"},
		{FolderName: "ko", PlatformCode: "ko", DisplayName: "Korean"},
		{FolderName: "pt-BR", PlatformCode: "pt-BR", DisplayName: "Portuguese (Brazil)"},
		{FolderName: "es-MX", PlatformCode: "es-MX", DisplayName: "Spanish (Mexico)"},
		{FolderName: "fr", PlatformCode: "fr-FR", DisplayName: "French"},
		{FolderName: "it", PlatformCode: "it", DisplayName: "Italian"},
		{FolderName: "ru", PlatformCode: "ru", DisplayName: "Russian"},
	}
}

func NewLocaleTable(locales []Locale) *LocaleTable {
	copied := make([]Locale, len(locales))
	copy(copied, locales)
	sort.Slice(copied, func(i, j int) bool {
		return copied[i].FolderName < copied[j].FolderName
	})
	return &LocaleTable{locales: copied}
}

type localesFile struct {
	Locales []Locale `yaml:"locales"`
}

// LoadLocaleTable reads a YAML locale table. An empty path yields the
// built-in table.
func LoadLocaleTable(path string) (*LocaleTable, error) {
	if path == "" {
		return NewLocaleTable(DefaultLocales()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locale table %s: %w", path, err)
	}

	var file localesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locale table %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Locales))
	for i, loc := range file.Locales {
		if loc.FolderName == "" || loc.PlatformCode == "" {
			return nil, fmt.Errorf("locale table %s: entry %d needs folder and code", path, i)
		}
		if _, dup := seen[loc.FolderName]; dup {
			return nil, fmt.Errorf("locale table %s: duplicate folder %q", path, loc.FolderName)
		}
		seen[loc.FolderName] = struct{}{}
		if loc.DisplayName == "" {
			file.Locales[i].DisplayName = loc.PlatformCode
		}
	}
	if len(file.Locales) == 0 {
		return nil, fmt.Errorf("locale table %s has no locales", path)
	}

	return NewLocaleTable(file.Locales), nil
}

// All returns the locales sorted by folder name.
func (t *LocaleTable) All() []Locale {
	out := make([]Locale, len(t.locales))
	copy(out, t.locales)
	return out
}

func (t *LocaleTable) ByFolder(folder string) (Locale, bool) {
	for _, loc := range t.locales {
		if loc.FolderName == folder {
			return loc, true
		}
	}
	return Locale{}, false
}

func (t *LocaleTable) ByCode(code string) (Locale, bool) {
	for _, loc := range t.locales {
		if loc.PlatformCode == code {
			return loc, true
		}
	}
	return Locale{}, false
}

// DisplayNameFor falls back to the code itself for unknown locales.
func (t *LocaleTable) DisplayNameFor(code string) string {
	if loc, ok := t.ByCode(code); ok {
		return loc.DisplayName
	}
	return code
}
