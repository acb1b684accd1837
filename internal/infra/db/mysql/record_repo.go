package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/bryanwahyu/millwatt/internal/domain/records"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) SaveBill(ctx context.Context, b *domain.BillRecord) error {
	const q = `
INSERT INTO bills
  (id, uid, bill_date, total_units, peak_charges, fixed_charges, savings_potential,
   recommendations_json, model, media_url)
VALUES (?,?,?,?,?,?,?,?,?,?)
`
	recs, err := encodeList(b.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q,
		b.ID, b.UserID, b.Date, b.TotalUnits, b.PeakCharges, b.FixedCharges, b.SavingsPotential,
		recs, b.Model, b.MediaURL,
	)
	return err
}

// LatestBill returns the newest bill, nil when the user has none.
func (r *RecordRepository) LatestBill(ctx context.Context, uid string) (*domain.BillRecord, error) {
	const q = `
SELECT id, uid, bill_date, total_units, peak_charges, fixed_charges, savings_potential,
       recommendations_json, model, media_url
FROM bills
WHERE uid=?
ORDER BY bill_date DESC, id DESC
LIMIT 1;
`
	var b domain.BillRecord
	var recs string
	err := r.db.QueryRowContext(ctx, q, uid).Scan(
		&b.ID, &b.UserID, &b.Date, &b.TotalUnits, &b.PeakCharges, &b.FixedCharges, &b.SavingsPotential,
		&recs, &b.Model, &b.MediaURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if b.Recommendations, err = decodeList(recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return &b, nil
}

func (r *RecordRepository) PeakChargesTotal(ctx context.Context, uid string) (int, decimal.Decimal, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(peak_charges), 0) FROM bills WHERE uid=?;`
	var count int
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, q, uid).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, err
	}
	return count, total, nil
}

func (r *RecordRepository) SaveEnergyLog(ctx context.Context, l *domain.EnergyLog) error {
	const q = `
INSERT INTO energy_logs
  (id, uid, log_date, name, units, actual_cost, predicted_cost, potential_savings)
VALUES (?,?,?,?,?,?,?,?)
`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.UserID, l.Date, l.Name, l.Units, l.ActualCost, l.PredictedCost, l.PotentialSavings,
	)
	return err
}

// RecentEnergyLogs picks the newest rows and returns them oldest first.
func (r *RecordRepository) RecentEnergyLogs(ctx context.Context, uid string, limit int) ([]*domain.EnergyLog, error) {
	if limit <= 0 {
		limit = 6
	}
	const q = `
SELECT id, uid, log_date, name, units, actual_cost, predicted_cost, potential_savings
FROM (
  SELECT id, uid, log_date, name, units, actual_cost, predicted_cost, potential_savings
  FROM energy_logs
  WHERE uid=?
  ORDER BY log_date DESC, id DESC
  LIMIT ?
) recent
ORDER BY log_date ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.EnergyLog{}
	for rows.Next() {
		var l domain.EnergyLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.Name, &l.Units,
			&l.ActualCost, &l.PredictedCost, &l.PotentialSavings); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
