package handler

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/fekuna/omnipos-sales-service/internal/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const OrderServiceName = "pos.v1.OrderService"

type OrderServiceServer interface {
	CreateOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListRecentOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListOrderHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetOrderStatistics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type OrderGRPCHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderGRPCHandler(uc order.UseCase, log logger.ZapLogger) *OrderGRPCHandler {
	return &OrderGRPCHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderGRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(rpc.Service(OrderServiceName, (*OrderServiceServer)(nil),
		rpc.Method(OrderServiceName, "CreateOrder", h.CreateOrder),
		rpc.Method(OrderServiceName, "GetOrder", h.GetOrder),
		rpc.Method(OrderServiceName, "ListRecentOrders", h.ListRecentOrders),
		rpc.Method(OrderServiceName, "ListOrderHistory", h.ListOrderHistory),
		rpc.Method(OrderServiceName, "GetOrderStatistics", h.GetOrderStatistics),
	), h)
}

func (h *OrderGRPCHandler) CreateOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateOrderInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	o, err := h.uc.CreateOrder(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create order", zap.String("order_id", input.OrderID), zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(o)
}

func (h *OrderGRPCHandler) GetOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	o, err := h.uc.GetOrder(ctx, in.ID)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(o)
}

func (h *OrderGRPCHandler) ListRecentOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Limit int `json:"limit"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	orders, err := h.uc.ListRecentOrders(ctx, in.Limit)
	if err != nil {
		h.logger.Error("failed to list recent orders", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{"orders": orders})
}

func (h *OrderGRPCHandler) ListOrderHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.HistoryFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, apperror.GRPCError(err)
	}

	orders, err := h.uc.ListOrderHistory(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to list order history", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{"orders": orders})
}

func (h *OrderGRPCHandler) GetOrderStatistics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.StatisticsFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, apperror.GRPCError(err)
	}

	stats, err := h.uc.GetOrderStatistics(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to compute order statistics", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(stats)
}
