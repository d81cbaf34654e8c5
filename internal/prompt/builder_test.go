package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPromptCarriesAppContextAndDelimiters(t *testing.T) {
	pb := NewPromptBuilder()

	text, err := pb.System(SystemVars{
		AppName:        "Notes Pro",
		AppDescription: "A note-taking app.",
		BrandVoice:     "Warm.",
		TargetLanguage: "German",
	})
	require.NoError(t, err)

	assert.Contains(t, text, "translating content for Notes Pro")
	assert.Contains(t, text, "natural, fluent German")
	assert.Contains(t, text, "===TRANSLATION_START===")
	assert.Contains(t, text, "===CONSIDERATIONS_END===")
}

func TestUserPromptIncludesLimitOnlyWhenSet(t *testing.T) {
	pb := NewPromptBuilder()

	limited, err := pb.User(UserVars{TextType: "Promotional Text", TargetLanguage: "Japanese", SourceText: "Write faster.", CharLimit: 170})
	require.NoError(t, err)
	assert.Contains(t, limited, "MUST be 170 characters or less")
	assert.Contains(t, limited, "SOURCE TEXT:\nWrite faster.")

	unlimited, err := pb.User(UserVars{TextType: "App Description", TargetLanguage: "Japanese", SourceText: "Write faster."})
	require.NoError(t, err)
	assert.NotContains(t, unlimited, "CRITICAL")
}

func TestCorrectionStatesExactViolation(t *testing.T) {
	text, err := NewPromptBuilder().Correction(CorrectionVars{Length: 175, Limit: 170})
	require.NoError(t, err)

	assert.Contains(t, text, "Your translation is 175 characters")
	assert.Contains(t, text, "MAXIMUM allowed is 170 characters")
}
