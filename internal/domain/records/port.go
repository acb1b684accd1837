package records

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the per-user bill and energy history.
type Repository interface {
	SaveBill(ctx context.Context, b *BillRecord) error
	// LatestBill returns nil, nil when the user has no bills yet.
	LatestBill(ctx context.Context, userID string) (*BillRecord, error)
	// PeakChargesTotal sums peak charges over all stored bills; count is the number of bills.
	PeakChargesTotal(ctx context.Context, userID string) (count int, total decimal.Decimal, err error)

	SaveEnergyLog(ctx context.Context, l *EnergyLog) error
	// RecentEnergyLogs returns up to limit newest entries, oldest first.
	RecentEnergyLogs(ctx context.Context, userID string, limit int) ([]*EnergyLog, error)
}

// MediaArchive keeps a copy of uploaded media.
type MediaArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
