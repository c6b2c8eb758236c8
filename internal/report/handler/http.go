package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHTTPHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func NewReportHTTPHandler(uc report.UseCase, log logger.ZapLogger) *ReportHTTPHandler {
	return &ReportHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/sales", h.GetSalesReport)
	rg.GET("/reports/sales/export", h.ExportSalesReport)
}

// GetSalesReport serves GET /reports/sales?start_date=&end_date=&period=&top_n=
func (h *ReportHTTPHandler) GetSalesReport(c *gin.Context) {
	var input dto.SalesReportInput
	if err := c.ShouldBindQuery(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	res, err := h.uc.GetSalesReport(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to build sales report", zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ExportSalesReport serves GET /reports/sales/export with the same query as
// GetSalesReport and responds with an xlsx attachment.
func (h *ReportHTTPHandler) ExportSalesReport(c *gin.Context) {
	var input dto.SalesReportInput
	if err := c.ShouldBindQuery(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	var buf bytes.Buffer
	if err := h.uc.ExportSalesReport(c.Request.Context(), &input, &buf); err != nil {
		h.logger.Error("failed to export sales report", zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(&input)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func exportFilename(input *dto.SalesReportInput) string {
	start, end := strings.TrimSpace(input.StartDate), strings.TrimSpace(input.EndDate)
	if start != "" && end != "" {
		return fmt.Sprintf("sales-report-%s-to-%s.xlsx", start, end)
	}
	return "sales-report.xlsx"
}
