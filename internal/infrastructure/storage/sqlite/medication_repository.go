package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
)

var _ medication.Repository = (*MedicationRepository)(nil)

type medicationRow struct {
	ID                string        `db:"id"`
	Name              string        `db:"name"`
	Dosage            string        `db:"dosage"`
	PeriodicityType   string        `db:"periodicity_type"`
	Periodicity       string        `db:"periodicity"`
	Validity          string        `db:"validity"`
	QuantityAvailable sql.NullInt64 `db:"quantity_available"`
	Position          int           `db:"position"`
	CachedAt          int64         `db:"cached_at"`
}

func toMedicationRow(m medication.Medication, position int, now time.Time) medicationRow {
	row := medicationRow{
		ID:              m.ID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		PeriodicityType: string(m.PeriodicityType),
		Periodicity:     m.Periodicity,
		Position:        position,
		CachedAt:        toMillis(now),
	}
	if !m.Validity.IsZero() {
		row.Validity = m.Validity.Format(time.RFC3339Nano)
	}
	if m.QuantityAvailable != nil {
		row.QuantityAvailable = sql.NullInt64{Int64: int64(*m.QuantityAvailable), Valid: true}
	}
	return row
}

func (r medicationRow) toDomain() medication.Medication {
	m := medication.Medication{
		ID:              r.ID,
		Name:            r.Name,
		Dosage:          r.Dosage,
		PeriodicityType: periodicity.Type(r.PeriodicityType),
		Periodicity:     r.Periodicity,
	}
	if r.Validity != "" {
		m.Validity, _ = time.Parse(time.RFC3339Nano, r.Validity)
	}
	if r.QuantityAvailable.Valid {
		q := int(r.QuantityAvailable.Int64)
		m.QuantityAvailable = &q
	}
	return m
}

// MedicationRepository - кэш лекарств в SQLite.
type MedicationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewMedicationRepository(db *sqlx.DB, log *slog.Logger) *MedicationRepository {
	return &MedicationRepository{
		db:  db,
		log: log,
	}
}

const upsertMedication = `
	INSERT INTO medications (id, name, dosage, periodicity_type, periodicity, validity,
	                         quantity_available, position, cached_at)
	VALUES (:id, :name, :dosage, :periodicity_type, :periodicity, :validity,
	        :quantity_available, :position, :cached_at)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		dosage = excluded.dosage,
		periodicity_type = excluded.periodicity_type,
		periodicity = excluded.periodicity,
		validity = excluded.validity,
		quantity_available = excluded.quantity_available,
		cached_at = excluded.cached_at
`

// ReplaceAll заменяет содержимое кэша списком с сервера, сохраняя его порядок.
func (r *MedicationRepository) ReplaceAll(ctx context.Context, meds []medication.Medication) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medications`); err != nil {
		return fmt.Errorf("clear medication cache: %w", err)
	}

	now := time.Now()
	for i, m := range meds {
		if _, err := tx.NamedExecContext(ctx, upsertMedication, toMedicationRow(m, i, now)); err != nil {
			return fmt.Errorf("cache medication %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit medication cache: %w", err)
	}

	r.log.Debug("medication cache replaced", "count", len(meds))
	return nil
}

// Save добавляет лекарство в конец кэша или обновляет существующее.
func (r *MedicationRepository) Save(ctx context.Context, m medication.Medication) error {
	var position int
	err := r.db.GetContext(ctx, &position, `SELECT COALESCE(MAX(position), -1) + 1 FROM medications`)
	if err != nil {
		return fmt.Errorf("next cache position: %w", err)
	}

	if _, err := r.db.NamedExecContext(ctx, upsertMedication, toMedicationRow(m, position, time.Now())); err != nil {
		return fmt.Errorf("cache medication %s: %w", m.ID, err)
	}
	return nil
}

func (r *MedicationRepository) List(ctx context.Context) ([]medication.Medication, error) {
	var rows []medicationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, dosage, periodicity_type, periodicity, validity,
		       quantity_available, position, cached_at
		FROM medications
		ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list cached medications: %w", err)
	}

	meds := make([]medication.Medication, 0, len(rows))
	for _, row := range rows {
		meds = append(meds, row.toDomain())
	}
	return meds, nil
}

// AddStock увеличивает запас в кэше. Пустой запас считается нулевым.
func (r *MedicationRepository) AddStock(ctx context.Context, id string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET quantity_available = COALESCE(quantity_available, 0) + ?
		WHERE id = ?
	`, quantity, id)
	if err != nil {
		return fmt.Errorf("update cached stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cached stock: %w", err)
	}
	if n == 0 {
		return medication.ErrNotFound
	}
	return nil
}
