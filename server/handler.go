package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/pkg/logger"
)

// Handler 承接 HTTP 入参校验与出参组装，业务全部在 engine 里。
type Handler struct {
	engine   *engine.Engine
	trending *engine.Trending
	repo     core.Repository
	log      *logger.Logger
}

// Recommendations 处理 GET /api/recommendations?user_id=&count=&exclude=。
// 目录为空或用户无可推内容时返回 200 + 空列表，不是错误。
func (h *Handler) Recommendations(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a positive integer"})
		return
	}

	var count int
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
	}

	var excludeID int64
	if raw := c.Query("exclude"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exclude must be an integer"})
			return
		}
	}

	recs, err := h.engine.Recommend(c.Request.Context(), engine.Request{
		UserID:    userID,
		Count:     count,
		ExcludeID: excludeID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// Trending 处理 GET /api/trending?count=。
func (h *Handler) Trending(c *gin.Context) {
	var count int
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = n
	}

	recs, err := h.trending.Top(c.Request.Context(), count)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trending": recs})
}

// Health 处理 GET /healthz：目录库可达即健康。
func (h *Handler) Health(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError 把领域错误翻译成 HTTP 状态码。
// 未分类错误一律 500，出参用固定文案，详情只进日志。
func (h *Handler) renderError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case core.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": domainMessage(err)})
	case core.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": domainMessage(err)})
	case core.IsUnavailable(err):
		h.log.Error("dependency unavailable", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domainMessage(err)})
	default:
		h.log.Error("request failed", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// domainMessage 取领域错误的对外文案，剥掉内部原因链。
func domainMessage(err error) string {
	if de := core.GetDomainError(err); de != nil {
		return de.Message
	}
	return err.Error()
}
