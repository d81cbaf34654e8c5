package campaign

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kapu/localization-connect-go/internal/util"
)

// NeedsTranslation inspects an existing target file. limit <= 0 disables the
// length check.
func NeedsTranslation(path string, limit int) (bool, string) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return true, "file missing"
	}
	if err != nil {
		return true, fmt.Sprintf("unreadable (%v)", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return true, "file empty"
	}

	length := util.CharCount(content)
	if limit > 0 && length > limit {
		return true, fmt.Sprintf("over limit (%d/%d chars)", length, limit)
	}

	return false, fmt.Sprintf("OK (%d chars)", length)
}
