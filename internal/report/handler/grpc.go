package handler

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ReportServiceName = "pos.v1.ReportService"

type ReportServiceServer interface {
	GetSalesReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type ReportGRPCHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportGRPCHandler(uc report.UseCase, log logger.ZapLogger) *ReportGRPCHandler {
	return &ReportGRPCHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportGRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(rpc.Service(ReportServiceName, (*ReportServiceServer)(nil),
		rpc.Method(ReportServiceName, "GetSalesReport", h.GetSalesReport),
	), h)
}

func (h *ReportGRPCHandler) GetSalesReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.SalesReportInput
	if err := rpc.Decode(req, &input); err != nil {
		return nil, apperror.GRPCError(err)
	}

	res, err := h.uc.GetSalesReport(ctx, &input)
	if err != nil {
		h.logger.Error("failed to build sales report", zap.Error(err))
		return nil, apperror.GRPCError(err)
	}

	return rpc.Encode(res)
}
