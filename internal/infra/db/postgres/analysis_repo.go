package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/millwatt/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
  (id, uid, kind, model, attempts, prompt_version, media_url, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  media_url=EXCLUDED.media_url,
  result_json=EXCLUDED.result_json;
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.Kind, stringOrDash(a.Model), a.Attempts,
		stringOrDash(a.PromptVersion), a.MediaURL, jsonOrEmpty(a.Result), createdAt,
	)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, uid string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, uid, kind, model, attempts, prompt_version, media_url, result_json, created_at
FROM analyses
WHERE uid=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, uid, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Model, &a.Attempts,
			&a.PromptVersion, &a.MediaURL, &a.Result, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) SaveFailure(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures
  (uid, kind, error_kind, model, attempts, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id;
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(f.UserID), stringOrDash(f.Kind), stringOrDash(f.ErrorKind),
		stringOrDash(f.Model), f.Attempts, stringOrDash(f.Message), created,
	).Scan(&f.ID)
}
