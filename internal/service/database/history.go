package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translation_runs (
	run_id         TEXT        NOT NULL,
	locale         TEXT        NOT NULL,
	field          TEXT        NOT NULL,
	status         TEXT        NOT NULL,
	reason         TEXT        NOT NULL DEFAULT '',
	attempts       INTEGER     NOT NULL DEFAULT 0,
	final_length   INTEGER     NOT NULL DEFAULT 0,
	recorded_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, locale, field)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	run_id       TEXT        NOT NULL,
	platform     TEXT        NOT NULL,
	locale_code  TEXT        NOT NULL,
	action       TEXT        NOT NULL,
	remote_id    TEXT        NOT NULL DEFAULT '',
	fields       TEXT        NOT NULL DEFAULT '',
	error        TEXT        NOT NULL DEFAULT '',
	recorded_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, platform, locale_code)
);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// RunHistory records campaign and sync outcomes for later inspection.
type RunHistory struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewRunHistory(ps *PostgresService, logger *zap.Logger) *RunHistory {
	return &RunHistory{db: ps.GetDB(), logger: logger, now: time.Now}
}

func (h *RunHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create history tables: %w", err)
	}
	return nil
}

func (h *RunHistory) RecordCampaign(ctx context.Context, runID string, report *domain.CampaignReport) error {
	rows := CampaignRows(report)
	if len(rows) == 0 {
		return nil
	}
	query, args, err := campaignInsert(runID, rows, h.now()).ToSql()
	if err != nil {
		return fmt.Errorf("build translation history insert: %w", err)
	}
	if err := h.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert translation history: %w", err)
	}
	h.logger.Debug("Recorded translation history", zap.Int("rows", len(rows)))
	return nil
}

func (h *RunHistory) RecordSync(ctx context.Context, runID string, platform domain.Platform, outcomes []domain.SyncOutcome) error {
	rows := SyncRows(outcomes)
	if len(rows) == 0 {
		return nil
	}
	query, args, err := syncInsert(runID, platform, rows, h.now()).ToSql()
	if err != nil {
		return fmt.Errorf("build sync history insert: %w", err)
	}
	if err := h.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert sync history for %s: %w", platform, err)
	}
	h.logger.Debug("Recorded sync history", zap.String("platform", platform.String()), zap.Int("rows", len(rows)))
	return nil
}

func campaignInsert(runID string, rows []CampaignRow, recordedAt time.Time) sq.InsertBuilder {
	b := psql.Insert("translation_runs").
		Columns("run_id", "locale", "field", "status", "reason", "attempts", "final_length", "recorded_at")
	for _, row := range rows {
		b = b.Values(runID, row.Locale, row.Field, row.Status, row.Reason, row.Attempts, row.FinalLength, recordedAt)
	}
	return b.Suffix(`ON CONFLICT (run_id, locale, field) DO UPDATE
		SET status = EXCLUDED.status, reason = EXCLUDED.reason,
		    attempts = EXCLUDED.attempts, final_length = EXCLUDED.final_length`)
}

func syncInsert(runID string, platform domain.Platform, rows []SyncRow, recordedAt time.Time) sq.InsertBuilder {
	b := psql.Insert("sync_runs").
		Columns("run_id", "platform", "locale_code", "action", "remote_id", "fields", "error", "recorded_at")
	for _, row := range rows {
		b = b.Values(runID, platform.String(), row.LocaleCode, row.Action, row.RemoteID, row.Fields, row.Error, recordedAt)
	}
	return b.Suffix(`ON CONFLICT (run_id, platform, locale_code) DO UPDATE
		SET action = EXCLUDED.action, remote_id = EXCLUDED.remote_id,
		    fields = EXCLUDED.fields, error = EXCLUDED.error`)
}

// exec runs one statement inside a transaction.
func (h *RunHistory) exec(ctx context.Context, query string, args []interface{}) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
