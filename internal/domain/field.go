package domain

import (
	"strings"

	"github.com/kapu/localization-connect-go/internal/constants"
)

// FieldKey identifies one of the four App Store text metadata fields.
type FieldKey string

const (
	FieldWhatsNew        FieldKey = "whats_new"
	FieldDescription     FieldKey = "description"
	FieldPromotionalText FieldKey = "promotional_text"
	FieldKeywords        FieldKey = "keywords"
)

// AllFields lists every field in upload order.
var AllFields = []FieldKey{
	FieldWhatsNew,
	FieldDescription,
	FieldPromotionalText,
	FieldKeywords,
}

type fieldInfo struct {
	fileName  string
	shortName string
	attribute string
	textType  string
	limit     int
}

var fieldInfos = map[FieldKey]fieldInfo{
	FieldWhatsNew: {
		fileName:  "new.txt",
		shortName: "new",
		attribute: "whatsNew",
		textType:  "What's New / Release Notes",
		limit:     constants.FieldLimits.WhatsNew,
	},
	FieldDescription: {
		fileName:  "desc.txt",
		shortName: "desc",
		attribute: "description",
		textType:  "App Description",
		limit:     constants.FieldLimits.Description,
	},
	FieldPromotionalText: {
		fileName:  "promo.txt",
		shortName: "promo",
		attribute: "promotionalText",
		textType:  "Promotional Text",
		limit:     constants.FieldLimits.PromotionalText,
	},
	FieldKeywords: {
		fileName:  "keywords.txt",
		shortName: "keywords",
		attribute: "keywords",
		textType:  "App Store Keywords (comma-separated search terms)",
		limit:     constants.FieldLimits.Keywords,
	},
}

func (f FieldKey) String() string {
	return string(f)
}

func (f FieldKey) IsValid() bool {
	_, ok := fieldInfos[f]
	return ok
}

// FileName is the on-disk name used in every locale folder.
func (f FieldKey) FileName() string {
	return fieldInfos[f].fileName
}

// ShortName is the CLI alias (new, desc, promo, keywords).
func (f FieldKey) ShortName() string {
	return fieldInfos[f].shortName
}

// Attribute is the App Store Connect JSON attribute name.
func (f FieldKey) Attribute() string {
	return fieldInfos[f].attribute
}

func (f FieldKey) TextType() string {
	if info, ok := fieldInfos[f]; ok {
		return info.textType
	}
	return "App Store text"
}

func (f FieldKey) DefaultCharLimit() int {
	return fieldInfos[f].limit
}

// ParseFieldKey accepts a field key, a CLI alias or a file name.
func ParseFieldKey(value string) (FieldKey, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, key := range AllFields {
		info := fieldInfos[key]
		if value == string(key) || value == info.shortName || value == info.fileName {
			return key, true
		}
	}
	return "", false
}

// SourceField is one English source text with its optional limit.
// CharLimit <= 0 means the field is unbounded.
type SourceField struct {
	Key       FieldKey
	Text      string
	CharLimit int
}

func (s SourceField) HasLimit() bool {
	return s.CharLimit > 0
}
