// Package feast 把 Feast 特征库接成 core.SignalService：
// 按书批量取在线行为信号（点赞/点踩/平均评分），给目录快照做覆盖。
package feast

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/logger"
)

// Config 是 Feast 接入配置。特征引用名带 FeatureTable 前缀，
// 与 Feast 侧的定义一一对应。
type Config struct {
	Host    string
	Port    int
	Project string

	// Entity 是实体列名，默认 book_id
	Entity string

	// 三个信号的特征引用，默认 book_stats:likes 等
	LikesFeature    string
	DislikesFeature string
	RatingFeature   string
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 6565
	}
	if c.Entity == "" {
		c.Entity = "book_id"
	}
	if c.LikesFeature == "" {
		c.LikesFeature = "book_stats:likes"
	}
	if c.DislikesFeature == "" {
		c.DislikesFeature = "book_stats:dislikes"
	}
	if c.RatingFeature == "" {
		c.RatingFeature = "book_stats:avg_rating"
	}
	return c
}

// SignalService 是官方 Feast Go SDK 上的 core.SignalService 实现。
// 返回的 map 只含特征库命中的书；没命中的书由调用方保留库内聚合值。
type SignalService struct {
	client *feastsdk.GrpcClient
	cfg    Config
	log    *logger.Logger
}

// NewSignalService 建立 gRPC 连接。特征库属于可选依赖，
// 连不上在这里就失败，由启动方决定是否降级为不接。
func NewSignalService(cfg Config, log *logger.Logger) (*SignalService, error) {
	if log == nil {
		log = logger.NewNop()
	}
	cfg = cfg.withDefaults()

	client, err := feastsdk.NewGrpcClient(cfg.Host, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("feast: connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &SignalService{
		client: client,
		cfg:    cfg,
		log:    log.With("component", "feast"),
	}, nil
}

func (s *SignalService) Name() string { return "feast" }

// BatchGetBookSignals 实现 core.SignalService。
// 一次请求带全量实体行，行序与入参对齐；
// 三个特征全缺的行按未命中跳过，零值是合法信号不跳。
func (s *SignalService) BatchGetBookSignals(ctx context.Context, bookIDs []int64) (map[int64]core.BookSignals, error) {
	out := make(map[int64]core.BookSignals, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	entities := make([]feastsdk.Row, len(bookIDs))
	for i, id := range bookIDs {
		entities[i] = feastsdk.Row{s.cfg.Entity: feastsdk.Int64Val(id)}
	}
	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{
			s.cfg.LikesFeature,
			s.cfg.DislikesFeature,
			s.cfg.RatingFeature,
		},
		Entities: entities,
		Project:  s.cfg.Project,
	}

	started := time.Now()
	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(bookIDs) {
		return nil, fmt.Errorf("feast: row count mismatch: sent %d, got %d", len(bookIDs), len(rows))
	}
	for i, row := range rows {
		likesVal := row[s.cfg.LikesFeature]
		dislikesVal := row[s.cfg.DislikesFeature]
		ratingVal := row[s.cfg.RatingFeature]
		// 在线库没命中的特征可能以空 Value 占位，按 oneof 负载判断存在性
		if likesVal.GetVal() == nil && dislikesVal.GetVal() == nil && ratingVal.GetVal() == nil {
			continue
		}
		// protobuf getter 对 nil 安全，缺的单项落 0
		out[bookIDs[i]] = core.BookSignals{
			Likes:    likesVal.GetInt64Val(),
			Dislikes: dislikesVal.GetInt64Val(),
			Rating:   ratingVal.GetDoubleVal(),
		}
	}
	s.log.Debug("book signals fetched",
		"requested", len(bookIDs),
		"hit", len(out),
		"elapsed", time.Since(started),
	)
	return out, nil
}

// Close 实现 core.SignalService。SDK 本身不暴露显式关闭，
// 连接由 gRPC 库托管，这里只断引用。
func (s *SignalService) Close(_ context.Context) error {
	s.client = nil
	return nil
}

var _ core.SignalService = (*SignalService)(nil)
