package translation

import (
	"strings"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/util"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

// Response wrapper grammar:
//
//	response      = *text translation *text [considerations *text]
//	translation   = TranslationStart body TranslationEnd
//	considerations = ConsiderationsStart body ConsiderationsEnd
//
// Only the first complete segment of each kind counts.
const (
	TranslationStart    = "===TRANSLATION_START==="
	TranslationEnd      = "===TRANSLATION_END==="
	ConsiderationsStart = "===CONSIDERATIONS_START==="
	ConsiderationsEnd   = "===CONSIDERATIONS_END==="
)

type ParsedResponse struct {
	Translation       string
	Considerations    string
	HasConsiderations bool
}

// ParseResponse extracts the delimited segments from a model reply. A
// missing or unterminated translation segment is a MalformedResponseError.
func ParseResponse(content string) (ParsedResponse, error) {
	translation, ok := extractSegment(content, TranslationStart, TranslationEnd)
	if !ok {
		preview := util.TruncateString(content, constants.TranslationConfig.ResponsePreviewLength)
		return ParsedResponse{}, errors.NewMalformedResponseError("could not find translation in response", preview)
	}

	parsed := ParsedResponse{
		Translation:    translation,
		Considerations: constants.TranslationConfig.NoConsiderations,
	}
	if considerations, ok := extractSegment(content, ConsiderationsStart, ConsiderationsEnd); ok {
		parsed.Considerations = considerations
		parsed.HasConsiderations = true
	}

	return parsed, nil
}

func extractSegment(content, start, end string) (string, bool) {
	startIdx := strings.Index(content, start)
	if startIdx < 0 {
		return "", false
	}
	body := content[startIdx+len(start):]

	endIdx := strings.Index(body, end)
	if endIdx < 0 {
		return "", false
	}

	return strings.TrimSpace(body[:endIdx]), true
}
