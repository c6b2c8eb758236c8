package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHTTPHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHTTPHandler(uc product.UseCase, log logger.ZapLogger) *ProductHTTPHandler {
	return &ProductHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
}

func (h *ProductHTTPHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid request body"))
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.String("sku", input.SKU), zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTPHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHTTPHandler) ListProducts(c *gin.Context) {
	var filters dto.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	products, count, err := h.uc.ListProducts(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": count})
}

func (h *ProductHTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid request body"))
		return
	}
	input.ID = id

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProductHTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondError(c, apperror.InvalidInput("invalid product id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
