package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/jmoiron/sqlx"
)

// Ledger applies stock deltas. It only accepts a transaction handle, so a
// stock mutation always belongs to the enclosing order transaction. at is
// stamped on the product row as its updated_at.
type Ledger interface {
	DecrementStock(ctx context.Context, tx *sqlx.Tx, productID int64, quantity int, at time.Time) (*dto.StockLevel, error)
}

type Repository interface {
	Ledger

	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]dto.StockLevel, int, error)
	BatchGetStockLevels(ctx context.Context, productIDs []int64) ([]dto.StockLevel, error)
}
