// bookrecd 是推荐服务守护进程：装配仓储、引擎与热门榜，起 HTTP 服务。
//
// 用法：
//
//	bookrecd -config /etc/bookrec/bookrec.yaml
//
// 不给配置文件时全走默认值 + 环境变量（DATABASE_URL 等）。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/config"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/feast"
	"github.com/rushteam/bookrec/pkg/logger"
	"github.com/rushteam/bookrec/server"
	"github.com/rushteam/bookrec/store"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（YAML）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch cfg.Log.Mode {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Database.DSN == "" {
		log.Fatal("database dsn is required (database.dsn or DATABASE_URL)")
	}

	// 目录仓储
	pg, err := catalog.NewPostgresRepository(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	defer pg.Close()
	if err := pg.AutoMigrate(); err != nil {
		log.Fatal("migrate database", "error", err)
	}

	// 特征库信号（可选），连不上降级为目录静态计数
	var repo core.Repository = pg
	if cfg.Feast.Enabled() {
		signals, err := feast.NewSignalService(cfg.Feast.ClientConfig(), log)
		if err != nil {
			log.Warn("feast unavailable, using catalog counters", "error", err)
		} else {
			defer signals.Close(context.Background())
			repo = catalog.WithSignals(repo, signals, log)
		}
	}

	// KV 存储：配了 Redis 用 Redis，否则进程内存储
	var kv core.KeyValueStore
	if cfg.Store.Addr != "" {
		redisStore, err := store.NewRedisStore(cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
		if err != nil {
			log.Warn("redis unavailable, trending computes per request", "error", err)
		} else {
			defer redisStore.Close()
			kv = redisStore
		}
	} else {
		mem := store.NewMemoryStore()
		defer mem.Close()
		kv = mem
	}

	eng, err := engine.New(repo, cfg.Engine.EngineConfig(), log)
	if err != nil {
		log.Fatal("init engine", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trending := engine.NewTrending(repo, kv, cfg.Trending.TrendingConfig(), log)
	trending.Start(ctx)

	router := server.NewRouter(server.RouterConfig{
		Engine:   eng,
		Trending: trending,
		Repo:     repo,
		Log:      log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
