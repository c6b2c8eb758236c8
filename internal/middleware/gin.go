package middleware

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Cashier copies the X-Cashier header onto the request context.
func Cashier() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cashier := c.GetHeader(auth.CashierKey); cashier != "" {
			c.Request = c.Request.WithContext(auth.WithCashier(c.Request.Context(), cashier))
		}
		c.Next()
	}
}

// RequestLogger replaces gin's default logger with structured zap lines.
func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			log.Warn("http request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		log.Info("http request", fields...)
	}
}

// RespondError records err on the context and aborts with the status and
// body derived from its kind.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperror.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"kind":  apperror.RootKind(err).String(),
	})
}
