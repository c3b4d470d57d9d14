// Package config 汇聚应用配置：YAML 文件 + 环境变量覆盖 + 默认值填充。
// YAML 的形态只在这里定义，各组件的 Config 保持纯 Go 结构，
// 由本包负责两边的映射（时长在 YAML 里一律写秒）。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/feast"
)

// Config 是 bookrecd / bookrec 的全量配置。
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Store    Store    `yaml:"store"`
	Feast    Feast    `yaml:"feast"`
	Engine   Engine   `yaml:"engine"`
	Trending Trending `yaml:"trending"`
	Log      Log      `yaml:"log"`
}

// Server 是 HTTP 服务配置，超时单位秒。
type Server struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     int    `yaml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

// Database 是目录库配置。DSN 按 Postgres 连接串书写，
// 环境变量 DATABASE_URL / DATABASE_URL_LOCAL 优先于文件。
type Database struct {
	DSN string `yaml:"dsn"`
}

// Store 是 KV 缓存配置。Addr 为空时退回进程内存储，
// 环境变量 REDIS_ADDR 优先于文件。
type Store struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Feast 是特征库接入配置。Host 为空视为未启用，
// 引擎退回目录快照里的静态计数。
type Feast struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Project         string `yaml:"project"`
	Entity          string `yaml:"entity"`
	LikesFeature    string `yaml:"likes_feature"`
	DislikesFeature string `yaml:"dislikes_feature"`
	RatingFeature   string `yaml:"rating_feature"`
}

// Enabled 报告是否配置了特征库。
func (f Feast) Enabled() bool { return f.Host != "" }

// ClientConfig 映射为 feast 包的客户端配置。
func (f Feast) ClientConfig() feast.Config {
	return feast.Config{
		Host:            f.Host,
		Port:            f.Port,
		Project:         f.Project,
		Entity:          f.Entity,
		LikesFeature:    f.LikesFeature,
		DislikesFeature: f.DislikesFeature,
		RatingFeature:   f.RatingFeature,
	}
}

// Engine 是推荐引擎的打分口径。
// 向量化参数不开放到配置：那套口径决定所有分值的可复现性，改动走代码评审。
type Engine struct {
	PenaltyWeight   float64  `yaml:"penalty_weight"`
	DiversityFactor float64  `yaml:"diversity_factor"`
	LikeWeight      float64  `yaml:"like_weight"`
	RatedWeight     float64  `yaml:"rated_weight"`
	DefaultCount    int      `yaml:"default_count"`
	MaxCount        int      `yaml:"max_count"`
	Rules           []string `yaml:"rules"`
	Blocklist       []int64  `yaml:"blocklist"`
}

// EngineConfig 映射为 engine 包的配置。
func (e Engine) EngineConfig() engine.Config {
	return engine.Config{
		PenaltyWeight:   e.PenaltyWeight,
		DiversityFactor: e.DiversityFactor,
		LikeWeight:      e.LikeWeight,
		RatedWeight:     e.RatedWeight,
		DefaultCount:    e.DefaultCount,
		MaxCount:        e.MaxCount,
		Rules:           e.Rules,
		Blocklist:       e.Blocklist,
	}
}

// Trending 是热门榜配置，刷新间隔单位秒。
type Trending struct {
	Size            int     `yaml:"size"`
	RefreshInterval int     `yaml:"refresh_interval"`
	LikeWeight      float64 `yaml:"like_weight"`
	RatedWeight     float64 `yaml:"rated_weight"`
}

// TrendingConfig 映射为 engine 包的榜单配置。
func (t Trending) TrendingConfig() engine.TrendingConfig {
	return engine.TrendingConfig{
		Size:            t.Size,
		RefreshInterval: time.Duration(t.RefreshInterval) * time.Second,
		LikeWeight:      t.LikeWeight,
		RatedWeight:     t.RatedWeight,
	}
}

// Log 是日志配置。Mode 取 dev / prod，见 pkg/logger。
type Log struct {
	Mode string `yaml:"mode"`
}

// Default 返回全默认配置（本地开发可直接起服务，不接外部依赖）。
func Default() *Config {
	e := engine.DefaultConfig()
	t := engine.DefaultTrendingConfig()
	return &Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10,
			WriteTimeout:    30,
			ShutdownTimeout: 10,
		},
		Engine: Engine{
			PenaltyWeight:   e.PenaltyWeight,
			DiversityFactor: e.DiversityFactor,
			LikeWeight:      e.LikeWeight,
			RatedWeight:     e.RatedWeight,
			DefaultCount:    e.DefaultCount,
			MaxCount:        e.MaxCount,
		},
		Trending: Trending{
			Size:            t.Size,
			RefreshInterval: int(t.RefreshInterval / time.Second),
		},
		Log: Log{Mode: "dev"},
	}
}

// Load 读取配置：默认值打底，path 非空时用 YAML 覆盖，最后套环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	// 本地库优先于部署库，便于在本机对着生产配置调试
	if v := os.Getenv("DATABASE_URL_LOCAL"); v != "" {
		c.Database.DSN = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Addr = v
	}
	if v := os.Getenv("BOOKREC_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate 做轻量校验：只拦截明显写错的值，缺省值由各组件自行兜底。
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Engine.DiversityFactor < 0 || c.Engine.DiversityFactor > 1 {
		return fmt.Errorf("config: engine.diversity_factor must be in [0, 1], got %v", c.Engine.DiversityFactor)
	}
	if c.Engine.PenaltyWeight < 0 {
		return fmt.Errorf("config: engine.penalty_weight must not be negative, got %v", c.Engine.PenaltyWeight)
	}
	if c.Engine.LikeWeight < 0 || c.Engine.RatedWeight < 0 {
		return fmt.Errorf("config: engine weights must not be negative")
	}
	if c.Engine.MaxCount > 0 && c.Engine.DefaultCount > c.Engine.MaxCount {
		return fmt.Errorf("config: engine.default_count %d exceeds max_count %d", c.Engine.DefaultCount, c.Engine.MaxCount)
	}
	if c.Trending.Size < 0 {
		return fmt.Errorf("config: trending.size must not be negative, got %d", c.Trending.Size)
	}
	if c.Trending.RefreshInterval < 0 {
		return fmt.Errorf("config: trending.refresh_interval must not be negative, got %d", c.Trending.RefreshInterval)
	}
	return nil
}
