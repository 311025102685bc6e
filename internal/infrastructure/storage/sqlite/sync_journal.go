package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medtracker/internal/domain/reminder"
)

var _ reminder.Journal = (*SyncJournal)(nil)

const defaultRecentPasses = 10

type passRow struct {
	PassID       string `db:"pass_id"`
	StartedAt    int64  `db:"started_at"`
	FinishedAt   int64  `db:"finished_at"`
	Fetched      int    `db:"fetched"`
	Cancelled    int    `db:"cancelled"`
	CancelFailed int    `db:"cancel_failed"`
	Scheduled    int    `db:"scheduled"`
	Skipped      int    `db:"skipped"`
	Failed       int    `db:"failed"`
	Error        string `db:"error"`
}

// SyncJournal - журнал проходов синхронизации напоминаний.
type SyncJournal struct {
	db *sqlx.DB
}

func NewSyncJournal(db *sqlx.DB) *SyncJournal {
	return &SyncJournal{db: db}
}

func (j *SyncJournal) RecordPass(ctx context.Context, result *reminder.SyncResult, passErr error) error {
	row := passRow{
		PassID:       result.PassID,
		StartedAt:    toMillis(result.StartTime),
		FinishedAt:   toMillis(result.EndTime),
		Fetched:      result.Fetched,
		Cancelled:    result.Cancelled,
		CancelFailed: result.CancelFailed,
		Scheduled:    result.Scheduled,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
	}
	if passErr != nil {
		row.Error = passErr.Error()
	}

	_, err := j.db.NamedExecContext(ctx, `
		INSERT INTO sync_passes
			(pass_id, started_at, finished_at, fetched, cancelled, cancel_failed, scheduled, skipped, failed, error)
		VALUES
			(:pass_id, :started_at, :finished_at, :fetched, :cancelled, :cancel_failed, :scheduled, :skipped, :failed, :error)
	`, row)
	if err != nil {
		return fmt.Errorf("record sync pass: %w", err)
	}
	return nil
}

// RecentPasses возвращает последние проходы, новые первыми.
func (j *SyncJournal) RecentPasses(ctx context.Context, limit int) ([]reminder.PassRecord, error) {
	if limit <= 0 {
		limit = defaultRecentPasses
	}

	var rows []passRow
	err := j.db.SelectContext(ctx, &rows, `
		SELECT pass_id, started_at, finished_at, fetched, cancelled, cancel_failed,
		       scheduled, skipped, failed, error
		FROM sync_passes
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync passes: %w", err)
	}

	out := make([]reminder.PassRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, reminder.PassRecord{
			PassID:       row.PassID,
			StartedAt:    fromMillis(row.StartedAt),
			FinishedAt:   fromMillis(row.FinishedAt),
			Fetched:      row.Fetched,
			Cancelled:    row.Cancelled,
			CancelFailed: row.CancelFailed,
			Scheduled:    row.Scheduled,
			Skipped:      row.Skipped,
			Failed:       row.Failed,
			Error:        row.Error,
		})
	}
	return out, nil
}
