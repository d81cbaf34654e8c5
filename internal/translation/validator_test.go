package translation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWithinLimit(t *testing.T) {
	for _, text := range []string{"", "short", strings.Repeat("a", 100), strings.Repeat("ü", 100)} {
		got := Validate(text, 100)
		assert.True(t, got.OK, text)
		assert.Equal(t, 0, got.Overage, text)
	}
}

func TestValidateOverLimitReportsOverage(t *testing.T) {
	got := Validate(strings.Repeat("x", 150), 100)

	assert.False(t, got.OK)
	assert.Equal(t, 150, got.Length)
	assert.Equal(t, 50, got.Overage)
}

func TestValidateWithoutLimitAlwaysPasses(t *testing.T) {
	got := Validate(strings.Repeat("x", 10000), 0)

	assert.True(t, got.OK)
	assert.Equal(t, 10000, got.Length)
	assert.Equal(t, 0, got.Overage)
}

func TestValidateCountsCodePoints(t *testing.T) {
	got := Validate("日本語のテキスト", 8)

	assert.True(t, got.OK)
	assert.Equal(t, 8, got.Length)
}
