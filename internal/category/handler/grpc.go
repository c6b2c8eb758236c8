package handler

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const CategoryServiceName = "pos.v1.CategoryService"

type CategoryServiceServer interface {
	CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type CategoryGRPCHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryGRPCHandler(uc category.UseCase, log logger.ZapLogger) *CategoryGRPCHandler {
	return &CategoryGRPCHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryGRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(rpc.Service(CategoryServiceName, (*CategoryServiceServer)(nil),
		rpc.Method(CategoryServiceName, "CreateCategory", h.CreateCategory),
		rpc.Method(CategoryServiceName, "GetCategory", h.GetCategory),
		rpc.Method(CategoryServiceName, "ListCategories", h.ListCategories),
		rpc.Method(CategoryServiceName, "UpdateCategory", h.UpdateCategory),
		rpc.Method(CategoryServiceName, "DeleteCategory", h.DeleteCategory),
	), h)
}

func (h *CategoryGRPCHandler) CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	cat, err := h.uc.CreateCategory(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create category", zap.String("name", input.Name), zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(cat)
}

func (h *CategoryGRPCHandler) GetCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	cat, err := h.uc.GetCategory(ctx, in.ID)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(cat)
}

func (h *CategoryGRPCHandler) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.CategoryFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, apperror.GRPCError(err)
	}

	categories, count, err := h.uc.ListCategories(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{
		"categories": categories,
		"total":      count,
	})
}

func (h *CategoryGRPCHandler) UpdateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateCategoryInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	cat, err := h.uc.UpdateCategory(ctx, &input)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(cat)
}

func (h *CategoryGRPCHandler) DeleteCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	if err := h.uc.DeleteCategory(ctx, in.ID); err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{"success": true})
}
