package inventory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
)

type UseCase interface {
	ListLowStock(ctx context.Context, page, pageSize int) ([]dto.StockLevel, int, error)
	// CheckLowStock returns the subset of productIDs at or below their minimum stock.
	CheckLowStock(ctx context.Context, productIDs []int64) ([]dto.StockLevel, error)
}
