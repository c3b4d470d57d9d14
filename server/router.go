// Package server 是 HTTP 接入层：gin 路由 + 中间件 + 出入参翻译。
//
// 路由：
//
//	GET /healthz                  存活探针（探目录库）
//	GET /api/recommendations      个性化推荐
//	GET /api/trending             热门榜
package server

import (
	"github.com/gin-gonic/gin"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/pkg/logger"
)

// RouterConfig 是路由装配的依赖项。
type RouterConfig struct {
	Engine   *engine.Engine
	Trending *engine.Trending
	Repo     core.Repository
	Log      *logger.Logger
}

// NewRouter 装配路由与中间件。gin 的运行模式由入口进程设置。
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{
		engine:   cfg.Engine,
		trending: cfg.Trending,
		repo:     cfg.Repo,
		log:      log,
	}

	router := gin.New()
	router.Use(RequestID(), AccessLog(log), gin.Recovery())

	router.GET("/healthz", h.Health)
	api := router.Group("/api")
	{
		api.GET("/recommendations", h.Recommendations)
		api.GET("/trending", h.Trending)
	}
	return router
}
