package appstore

import (
	"fmt"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/util"
)

// FieldReader is the read side of the locale tree.
type FieldReader interface {
	PresentLocales() []domain.Locale
	ReadField(folder string, field domain.FieldKey) (string, bool, error)
}

// LoadDesiredState reads every present locale folder, including the source
// folder, keyed by platform locale code. Empty files are left out so a
// failed translation placeholder never blanks remote content.
func LoadDesiredState(reader FieldReader) (domain.DesiredState, error) {
	desired := make(domain.DesiredState)
	for _, loc := range reader.PresentLocales() {
		fields := make(map[domain.FieldKey]string)
		for _, key := range domain.AllFields {
			text, ok, err := reader.ReadField(loc.FolderName, key)
			if err != nil {
				return nil, err
			}
			if !ok || text == "" {
				continue
			}
			fields[key] = text
		}
		if len(fields) > 0 {
			desired[loc.PlatformCode] = fields
		}
	}
	return desired, nil
}

// ParseFields turns CLI field names (new, desc, promo, keywords, all, or
// full keys) into a FieldSet. No names means every field.
func ParseFields(names []string) (domain.FieldSet, error) {
	if len(names) == 0 {
		return domain.NewFieldSet(domain.AllFields...), nil
	}

	keys := make([]domain.FieldKey, 0, len(names))
	for _, name := range names {
		for _, part := range util.SplitCommaSeparated(name) {
			if util.Normalize(part) == "all" {
				return domain.NewFieldSet(domain.AllFields...), nil
			}
			key, ok := domain.ParseFieldKey(part)
			if !ok {
				return nil, fmt.Errorf("unknown field %q (use new, desc, promo, keywords or all)", part)
			}
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return domain.NewFieldSet(domain.AllFields...), nil
	}
	return domain.NewFieldSet(keys...), nil
}
