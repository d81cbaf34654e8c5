package database

import (
	"strings"

	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/internal/util"
)

type CampaignRow struct {
	Locale      string
	Field       string
	Status      string
	Reason      string
	Attempts    int
	FinalLength int
}

type SyncRow struct {
	LocaleCode string
	Action     string
	RemoteID   string
	Fields     string
	Error      string
}

func CampaignRows(report *domain.CampaignReport) []CampaignRow {
	if report == nil {
		return nil
	}
	rows := make([]CampaignRow, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rows = append(rows, CampaignRow{
			Locale:      o.Locale,
			Field:       o.Field.String(),
			Status:      o.Status.String(),
			Reason:      o.Reason,
			Attempts:    o.Attempts,
			FinalLength: util.CharCount(o.FinalText),
		})
	}
	return rows
}

func SyncRows(outcomes []domain.SyncOutcome) []SyncRow {
	rows := make([]SyncRow, 0, len(outcomes))
	for _, o := range outcomes {
		fields := make([]string, 0, len(o.Fields))
		for _, f := range o.Fields {
			fields = append(fields, f.String())
		}
		row := SyncRow{
			LocaleCode: o.LocaleCode,
			Action:     string(o.Action),
			RemoteID:   o.RemoteID,
			Fields:     strings.Join(fields, ","),
		}
		if o.Err != nil {
			row.Error = o.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}
