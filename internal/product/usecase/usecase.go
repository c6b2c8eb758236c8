package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"go.uber.org/zap"
)

const (
	listCacheKeyPrefix = "products:list:"
	defaultCacheTTL    = 5 * time.Minute
)

// CategoryGetter is satisfied by category.UseCase.
type CategoryGetter interface {
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
}

type Options struct {
	// Categories validates category_id on writes when set.
	Categories CategoryGetter
	// Cache holds listing pages; nil disables caching.
	Cache    product.Cache
	CacheTTL time.Duration
	// Reports is told when a change affects report grouping or names.
	Reports order.CacheInvalidator
}

type productUseCase struct {
	repo   product.Repository
	opts   Options
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, opts Options, log logger.ZapLogger) product.UseCase {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &productUseCase{
		repo:   repo,
		opts:   opts,
		logger: log,
	}
}

type cachedList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:         strings.TrimSpace(input.Name),
		SKU:          strings.TrimSpace(input.SKU),
		CategoryID:   input.CategoryID,
		UnitPrice:    input.UnitPrice,
		PriceBought:  input.PriceBought,
		CurrentStock: input.CurrentStock,
		MinimumStock: input.MinimumStock,
		Supplier:     input.Supplier,
	}
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsSKUUnique(ctx, p.SKU, 0)
	if err != nil {
		return nil, apperror.Storage(err, "failed to check sku")
	}
	if !unique {
		return nil, apperror.InvalidInput("sku %q already exists", p.SKU)
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, apperror.Storage(err, "failed to create product")
	}

	uc.logger.Info("product created", zap.Int64("id", p.ID), zap.String("sku", p.SKU))
	uc.InvalidateCache(ctx)
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get product")
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	cacheKey := uc.cacheKey(filters)
	if uc.opts.Cache != nil {
		if val, err := uc.opts.Cache.Get(ctx, cacheKey); err == nil {
			var result cachedList
			if err := json.Unmarshal(val, &result); err == nil {
				return result.Products, result.Count, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("product cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list products")
	}

	if uc.opts.Cache != nil {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.opts.Cache.Set(ctx, cacheKey, data, uc.opts.CacheTTL); err != nil {
				uc.logger.Warn("product cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get product")
	}

	affectsReports := p.Name != strings.TrimSpace(input.Name) || !sameID(p.CategoryID, input.CategoryID) ||
		!sameFloat(p.PriceBought, input.PriceBought)

	p.Name = strings.TrimSpace(input.Name)
	p.SKU = strings.TrimSpace(input.SKU)
	p.CategoryID = input.CategoryID
	p.UnitPrice = input.UnitPrice
	p.PriceBought = input.PriceBought
	p.CurrentStock = input.CurrentStock
	p.MinimumStock = input.MinimumStock
	p.Supplier = input.Supplier
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsSKUUnique(ctx, p.SKU, p.ID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to check sku")
	}
	if !unique {
		return nil, apperror.InvalidInput("sku %q already exists", p.SKU)
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, apperror.Storage(err, "failed to update product")
	}

	uc.InvalidateCache(ctx)
	if affectsReports && uc.opts.Reports != nil {
		uc.opts.Reports.InvalidateCache(ctx)
	}
	return uc.GetProduct(ctx, p.ID)
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperror.Storage(err, "failed to delete product")
	}

	uc.logger.Info("product deleted", zap.Int64("id", id))
	uc.InvalidateCache(ctx)
	if uc.opts.Reports != nil {
		uc.opts.Reports.InvalidateCache(ctx)
	}
	return nil
}

func (uc *productUseCase) InvalidateCache(ctx context.Context) {
	if uc.opts.Cache == nil {
		return
	}
	if err := uc.opts.Cache.DeletePattern(ctx, listCacheKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) validate(ctx context.Context, p *model.Product) error {
	switch {
	case p.Name == "":
		return apperror.InvalidInput("product name is required")
	case p.SKU == "":
		return apperror.InvalidInput("product sku is required")
	case p.UnitPrice < 0:
		return apperror.InvalidInput("unit_price must not be negative")
	case p.PriceBought != nil && *p.PriceBought < 0:
		return apperror.InvalidInput("price_bought must not be negative")
	case p.MinimumStock < 0:
		return apperror.InvalidInput("minimum_stock must not be negative")
	}

	if p.CategoryID != nil && uc.opts.Categories != nil {
		if _, err := uc.opts.Categories.GetCategory(ctx, *p.CategoryID); err != nil {
			if apperror.RootKind(err) == apperror.KindNotFound {
				return apperror.InvalidInput("category %d does not exist", *p.CategoryID)
			}
			return err
		}
	}
	return nil
}

func (uc *productUseCase) cacheKey(filters *dto.ProductFilters) string {
	data, _ := json.Marshal(filters)
	return fmt.Sprintf("%s%x", listCacheKeyPrefix, md5.Sum(data))
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
