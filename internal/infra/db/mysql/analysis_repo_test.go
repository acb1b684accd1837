package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/millwatt/internal/domain/analysis"
)

func TestAnalysisRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analyses")).
		WithArgs("a1", "u1", "bill", "-", 1, "2026.1", "", "{}", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewAnalysisRepository(db).Save(context.Background(), &domain.Analysis{
		ID: "a1", UserID: "u1", Kind: "bill", Attempts: 1, PromptVersion: "2026.1", CreatedAt: created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Paginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "uid", "kind", "model", "attempts", "prompt_version", "media_url", "result_json", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM analyses")).
		WithArgs("u1", 10, 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a2", "u1", "audio", "m", 2, "v", "", `{"status":"Healthy"}`, time.Now()))

	out, err := NewAnalysisRepository(db).Paginate(context.Background(), "u1", 2, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.ID("a2"), out[0].ID)
	assert.Equal(t, 2, out[0].Attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_SaveFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analysis_failures")).
		WithArgs("u1", "bill", "transport", "-", 0, "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	f := &domain.Failure{UserID: "u1", Kind: "bill", ErrorKind: "transport", Message: "boom"}
	require.NoError(t, NewAnalysisRepository(db).SaveFailure(context.Background(), f))
	assert.Equal(t, int64(42), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
