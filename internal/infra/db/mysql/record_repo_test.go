package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/millwatt/internal/domain/records"
)

func TestRecordRepository_SaveBill(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bills")).
		WithArgs("b1", "u1", date, decimal.NewFromInt(1200), decimal.NewFromInt(5000), decimal.NewFromInt(2000),
			decimal.NewFromInt(1500), `["Shift load"]`, "gemini-2.5-flash", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRecordRepository(db)
	err = repo.SaveBill(context.Background(), &domain.BillRecord{
		ID: "b1", UserID: "u1", Date: date,
		TotalUnits: decimal.NewFromInt(1200), PeakCharges: decimal.NewFromInt(5000),
		FixedCharges: decimal.NewFromInt(2000), SavingsPotential: decimal.NewFromInt(1500),
		Recommendations: []string{"Shift load"}, Model: "gemini-2.5-flash",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_LatestBill(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "uid", "bill_date", "total_units", "peak_charges", "fixed_charges",
		"savings_potential", "recommendations_json", "model", "media_url"}
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bills")).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("b1", "u1", date, "1000", "4500.50", "2000", "0", `["a","b"]`, "m", ""))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bills")).WithArgs("u2").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewRecordRepository(db)
	b, err := repo.LatestBill(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "4500.5", b.PeakCharges.String())
	assert.Equal(t, []string{"a", "b"}, b.Recommendations)
	assert.Equal(t, date, b.Date)

	b, err = repo.LatestBill(context.Background(), "u2")
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_PeakChargesTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(peak_charges), 0) FROM bills")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "total"}).AddRow(3, "13500.00"))

	count, total, err := NewRecordRepository(db).PeakChargesTotal(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, decimal.NewFromInt(13500).Equal(total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_RecentEnergyLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "uid", "log_date", "name", "units", "actual_cost", "predicted_cost", "potential_savings"}
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM energy_logs")).WithArgs("u1", 6).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("l1", "u1", jan, "Jan 2026", "900", "7000", "5500", "1500").
			AddRow("l2", "u1", feb, "Feb 2026", "950", "7200", "6000", "1200"))

	logs, err := NewRecordRepository(db).RecentEnergyLogs(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Jan 2026", logs[0].Name)
	assert.Equal(t, "6000", logs[1].PredictedCost.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_SaveEnergyLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO energy_logs")).
		WithArgs("l1", "u1", sqlmock.AnyArg(), "Mar 2026", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRecordRepository(db).SaveEnergyLog(context.Background(), &domain.EnergyLog{ID: "l1", UserID: "u1", Name: "Mar 2026", Date: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
