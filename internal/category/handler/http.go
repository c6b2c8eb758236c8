package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHTTPHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHTTPHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHTTPHandler {
	return &CategoryHTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.CreateCategory)
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)
}

func (h *CategoryHTTPHandler) CreateCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid request body"))
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to create category", zap.String("name", input.Name), zap.Error(err))
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTPHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.uc.GetCategory(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTPHandler) ListCategories(c *gin.Context) {
	var filters dto.CategoryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid query"))
		return
	}

	categories, count, err := h.uc.ListCategories(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": count})
}

func (h *CategoryHTTPHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input dto.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.RespondError(c, apperror.Wrap(apperror.KindInvalidInput, err, "invalid request body"))
		return
	}
	input.ID = id

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTPHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteCategory(c.Request.Context(), id); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondError(c, apperror.InvalidInput("invalid category id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
