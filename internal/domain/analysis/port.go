package analysis

import "context"

type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Paginate(ctx context.Context, userID string, page, pageSize int) ([]*Analysis, error)
	SaveFailure(ctx context.Context, f *Failure) error
}
