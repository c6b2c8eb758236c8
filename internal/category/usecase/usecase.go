package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo    category.Repository
	reports order.CacheInvalidator
	logger  logger.ZapLogger
}

// NewCategoryUseCase builds the catalog category usecase. reports may be nil;
// when set, renames and deletions drop cached sales reports since they
// group revenue by category name.
func NewCategoryUseCase(repo category.Repository, reports order.CacheInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:    repo,
		reports: reports,
		logger:  log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.InvalidInput("category name is required")
	}

	cat := &model.Category{
		Name:        name,
		Description: input.Description,
		Icon:        input.Icon,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, apperror.Storage(err, "failed to create category")
	}

	uc.logger.Info("category created", zap.Int64("id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get category")
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if filters == nil {
		filters = &dto.CategoryFilters{}
	}
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list categories")
	}
	return categories, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.InvalidInput("category name is required")
	}

	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get category")
	}

	renamed := cat.Name != name
	cat.Name = name
	cat.Description = input.Description
	cat.Icon = input.Icon

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, apperror.Storage(err, "failed to update category")
	}
	if renamed {
		uc.invalidateReports(ctx)
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperror.Storage(err, "failed to delete category")
	}
	uc.logger.Info("category deleted", zap.Int64("id", id))
	uc.invalidateReports(ctx)
	return nil
}

func (uc *categoryUseCase) invalidateReports(ctx context.Context) {
	if uc.reports != nil {
		uc.reports.InvalidateCache(ctx)
	}
}
