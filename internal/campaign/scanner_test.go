package campaign

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsTranslation(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cases := []struct {
		name       string
		path       string
		limit      int
		wantNeeds  bool
		wantReason string
	}{
		{"missing", filepath.Join(dir, "nope.txt"), 100, true, "file missing"},
		{"empty", write("empty.txt", "  \n"), 100, true, "file empty"},
		{"over limit", write("long.txt", strings.Repeat("x", 150)), 100, true, "over limit (150/100 chars)"},
		{"within limit", write("ok.txt", strings.Repeat("x", 50)), 100, false, "OK (50 chars)"},
		{"no limit", write("free.txt", strings.Repeat("x", 5000)), 0, false, "OK (5000 chars)"},
		{"code points", write("wide.txt", strings.Repeat("é", 100)), 100, false, "OK (100 chars)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			needs, reason := NeedsTranslation(tc.path, tc.limit)
			assert.Equal(t, tc.wantNeeds, needs)
			assert.Equal(t, tc.wantReason, reason)
		})
	}
}
