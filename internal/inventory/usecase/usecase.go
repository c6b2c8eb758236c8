package usecase

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]dto.StockLevel, int, error) {
	items, count, err := uc.repo.ListLowStock(ctx, &dto.LowStockFilters{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list low stock products")
	}
	return items, count, nil
}

func (uc *inventoryUseCase) CheckLowStock(ctx context.Context, productIDs []int64) ([]dto.StockLevel, error) {
	levels, err := uc.repo.BatchGetStockLevels(ctx, productIDs)
	if err != nil {
		return nil, apperror.Storage(err, "failed to read stock levels")
	}

	low := make([]dto.StockLevel, 0, len(levels))
	for _, level := range levels {
		if level.IsLow() {
			low = append(low, level)
		}
	}
	if len(low) > 0 {
		uc.logger.Debug("low stock detected", zap.Int("products", len(low)))
	}
	return low, nil
}
