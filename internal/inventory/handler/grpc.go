package handler

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const InventoryServiceName = "pos.v1.InventoryService"

type InventoryServiceServer interface {
	ListLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CheckLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type InventoryGRPCHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryGRPCHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryGRPCHandler {
	return &InventoryGRPCHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryGRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(rpc.Service(InventoryServiceName, (*InventoryServiceServer)(nil),
		rpc.Method(InventoryServiceName, "ListLowStock", h.ListLowStock),
		rpc.Method(InventoryServiceName, "CheckLowStock", h.CheckLowStock),
	), h)
}

func (h *InventoryGRPCHandler) ListLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.LowStockFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, apperror.GRPCError(err)
	}

	items, count, err := h.uc.ListLowStock(ctx, filters.Page, filters.PageSize)
	if err != nil {
		h.logger.Error("failed to list low stock products", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{
		"items": items,
		"total": count,
	})
}

func (h *InventoryGRPCHandler) CheckLowStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ProductIDs []int64 `json:"product_ids"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	items, err := h.uc.CheckLowStock(ctx, in.ProductIDs)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{"items": items})
}
