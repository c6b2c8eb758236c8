package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	levels  []dto.StockLevel
	filters *dto.LowStockFilters
	err     error
}

func (f *fakeRepo) DecrementStock(context.Context, *sqlx.Tx, int64, int, time.Time) (*dto.StockLevel, error) {
	return nil, errors.New("not used")
}

func (f *fakeRepo) ListLowStock(_ context.Context, filters *dto.LowStockFilters) ([]dto.StockLevel, int, error) {
	f.filters = filters
	return f.levels, len(f.levels), f.err
}

func (f *fakeRepo) BatchGetStockLevels(context.Context, []int64) ([]dto.StockLevel, error) {
	return f.levels, f.err
}

func TestCheckLowStockFiltersHealthyProducts(t *testing.T) {
	repo := &fakeRepo{levels: []dto.StockLevel{
		{ProductID: 1, CurrentStock: 10, MinimumStock: 2},
		{ProductID: 2, CurrentStock: 2, MinimumStock: 2},
		{ProductID: 3, CurrentStock: -1, MinimumStock: 0},
	}}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	low, err := uc.CheckLowStock(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, int64(2), low[0].ProductID)
	assert.Equal(t, int64(3), low[1].ProductID)
}

func TestListLowStockPassesPaging(t *testing.T) {
	repo := &fakeRepo{levels: []dto.StockLevel{{ProductID: 7}}}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	items, count, err := uc.ListLowStock(context.Background(), 3, 25)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, &dto.LowStockFilters{Page: 3, PageSize: 25}, repo.filters)
}

func TestUseCaseWrapsStorageErrors(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk I/O error")}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, err := uc.CheckLowStock(context.Background(), []int64{1})
	assert.True(t, apperror.Is(err, apperror.KindStorage))

	_, _, err = uc.ListLowStock(context.Background(), 1, 10)
	assert.True(t, apperror.Is(err, apperror.KindStorage))
}
