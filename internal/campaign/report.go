package campaign

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
)

// SummaryLines renders a report as TRANSLATED / SKIPPED / FAILED sections.
func SummaryLines(report *domain.CampaignReport) []string {
	lines := []string{"TRANSLATION SUMMARY"}
	lines = append(lines, section("TRANSLATED", report.Succeeded(), false)...)
	lines = append(lines, section("SKIPPED", report.Skipped(), true)...)
	lines = append(lines, section("FAILED", report.Failed(), true)...)
	return lines
}

func section(title string, outcomes []domain.TranslationOutcome, withReason bool) []string {
	if len(outcomes) == 0 {
		return []string{title + ": None"}
	}
	lines := []string{fmt.Sprintf("%s (%d):", title, len(outcomes))}
	for _, o := range outcomes {
		item := o.Label()
		if withReason && o.Reason != "" {
			item += ": " + o.Reason
		}
		lines = append(lines, "  - "+item)
	}
	return lines
}

func LogSummary(logger *zap.Logger, report *domain.CampaignReport) {
	for _, line := range SummaryLines(report) {
		logger.Info(line)
	}
	logger.Info("Campaign finished",
		zap.Int("translated", len(report.Succeeded())),
		zap.Int("skipped", len(report.Skipped())),
		zap.Int("failed", len(report.Failed())),
	)
}
