package handler

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/fekuna/omnipos-sales-service/internal/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ProductServiceName = "pos.v1.ProductService"

type ProductServiceServer interface {
	CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type ProductGRPCHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductGRPCHandler(uc product.UseCase, log logger.ZapLogger) *ProductGRPCHandler {
	return &ProductGRPCHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductGRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(rpc.Service(ProductServiceName, (*ProductServiceServer)(nil),
		rpc.Method(ProductServiceName, "CreateProduct", h.CreateProduct),
		rpc.Method(ProductServiceName, "GetProduct", h.GetProduct),
		rpc.Method(ProductServiceName, "ListProducts", h.ListProducts),
		rpc.Method(ProductServiceName, "UpdateProduct", h.UpdateProduct),
		rpc.Method(ProductServiceName, "DeleteProduct", h.DeleteProduct),
	), h)
}

func (h *ProductGRPCHandler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	p, err := h.uc.CreateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.String("sku", input.SKU), zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(p)
}

func (h *ProductGRPCHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	p, err := h.uc.GetProduct(ctx, in.ID)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(p)
}

func (h *ProductGRPCHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var filters dto.ProductFilters
	if err := rpc.Decode(req, &filters); err != nil {
		return nil, apperror.GRPCError(err)
	}

	products, count, err := h.uc.ListProducts(ctx, &filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{
		"products": products,
		"total":    count,
	})
}

func (h *ProductGRPCHandler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateProductInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	p, err := h.uc.UpdateProduct(ctx, &input)
	if err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(p)
}

func (h *ProductGRPCHandler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		ID int64 `json:"id"`
	}
	if err := rpc.Decode(req, &in); err != nil {
		return nil, apperror.GRPCError(err)
	}

	if err := h.uc.DeleteProduct(ctx, in.ID); err != nil {
		return nil, apperror.GRPCError(err)
	}
	return rpc.Encode(map[string]interface{}{"success": true})
}
