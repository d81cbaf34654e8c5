package campaign

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
)

// Store is the locale tree on disk: one folder per locale holding one text
// file per field, with en/ as the source.
type Store struct {
	root   string
	table  *domain.LocaleTable
	logger *zap.Logger
}

func NewStore(root string, table *domain.LocaleTable, logger *zap.Logger) *Store {
	return &Store{root: root, table: table, logger: logger}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Table() *domain.LocaleTable {
	return s.table
}

func (s *Store) FieldPath(folder string, field domain.FieldKey) string {
	return filepath.Join(s.root, folder, field.FileName())
}

// LoadSources reads the English source files. Missing files are logged and
// left out; the returned slice follows AllFields order.
func (s *Store) LoadSources() ([]domain.SourceField, error) {
	sourceDir := filepath.Join(s.root, constants.TranslationConfig.SourceFolder)
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source folder %s not found", sourceDir)
	}

	sources := make([]domain.SourceField, 0, len(domain.AllFields))
	for _, key := range domain.AllFields {
		text, ok, err := s.ReadField(constants.TranslationConfig.SourceFolder, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Warn("Source file missing",
				zap.String("file", key.FileName()),
				zap.String("dir", sourceDir),
			)
			continue
		}
		sources = append(sources, domain.SourceField{
			Key:       key,
			Text:      text,
			CharLimit: key.DefaultCharLimit(),
		})
	}
	return sources, nil
}

// PresentLocales returns the table locales whose folder exists, sorted by
// folder name.
func (s *Store) PresentLocales() []domain.Locale {
	present := make([]domain.Locale, 0)
	for _, loc := range s.table.All() {
		info, err := os.Stat(filepath.Join(s.root, loc.FolderName))
		if err != nil || !info.IsDir() {
			continue
		}
		present = append(present, loc)
	}
	return present
}

// TargetLocales is PresentLocales without the source folder.
func (s *Store) TargetLocales() []domain.Locale {
	targets := make([]domain.Locale, 0)
	for _, loc := range s.PresentLocales() {
		if loc.FolderName == constants.TranslationConfig.SourceFolder {
			continue
		}
		targets = append(targets, loc)
	}
	return targets
}

// ReadField returns the trimmed file content and whether the file exists.
func (s *Store) ReadField(folder string, field domain.FieldKey) (string, bool, error) {
	data, err := os.ReadFile(s.FieldPath(folder, field))
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s/%s: %w", folder, field.FileName(), err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

func (s *Store) WriteField(folder string, field domain.FieldKey, text string) error {
	return writeAtomic(s.FieldPath(folder, field), []byte(text))
}

// WriteAudit stores full_translation.json for one locale folder.
func (s *Store) WriteAudit(folder string, entries map[domain.FieldKey]domain.AuditEntry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode audit record for %s: %w", folder, err)
	}
	return writeAtomic(filepath.Join(s.root, folder, constants.TranslationConfig.AuditFileName), buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}
