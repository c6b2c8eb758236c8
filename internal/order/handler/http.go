package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	"github.com/fekuna/omnipos-sales-service/internal/order/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHTTPHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHTTPHandler(uc order.UseCase, log logger.ZapLogger) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrderHistory)
	orders.GET("/recent", h.ListRecentOrders)
	orders.GET("/statistics", h.GetOrderStatistics)
	orders.GET("/:id", h.GetOrder)
}

func (h *OrderHTTPHandler) CreateOrder(c *gin.Context) {
	var input dto.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid request body"))
		return
	}

	o, err := h.uc.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to create order", zap.String("order_id", input.OrderID), zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondError(c, apperror.InvalidInput("invalid order id %q", c.Param("id")))
		return
	}

	o, err := h.uc.GetOrder(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *OrderHTTPHandler) ListRecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, err := h.uc.ListRecentOrders(c.Request.Context(), limit)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHTTPHandler) ListOrderHistory(c *gin.Context) {
	var filters dto.HistoryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	orders, err := h.uc.ListOrderHistory(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHTTPHandler) GetOrderStatistics(c *gin.Context) {
	var filters dto.StatisticsFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	stats, err := h.uc.GetOrderStatistics(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
