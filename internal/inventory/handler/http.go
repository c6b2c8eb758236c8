package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHTTPHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHTTPHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory/low-stock", h.ListLowStock)
}

func (h *InventoryHTTPHandler) ListLowStock(c *gin.Context) {
	var filters dto.LowStockFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	items, count, err := h.uc.ListLowStock(c.Request.Context(), filters.Page, filters.PageSize)
	if err != nil {
		h.logger.Error("failed to list low stock products", zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": count})
}
