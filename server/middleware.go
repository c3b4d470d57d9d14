package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rushteam/bookrec/pkg/logger"
)

// RequestIDHeader 是请求标识头。调用方带了就沿用（网关链路透传），
// 没带则生成 uuid，响应头原样回写。
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID 给每个请求挂上唯一标识。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog 输出访问日志，一行一个请求。
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(started),
		}
		if len(c.Errors) > 0 {
			log.Warn("http request", append(fields, "errors", c.Errors.String())...)
			return
		}
		log.Info("http request", fields...)
	}
}
