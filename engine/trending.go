package engine

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/logger"
	"github.com/rushteam/bookrec/recall"
)

// 热门榜缓存的键：zset 放排名（member=书 ID，score=热门度），
// hash 放每本书的出参元数据（field=书 ID，value=JSON）。
const (
	TrendingRankKey = "popular:books"
	TrendingMetaKey = "popular:books:meta"
)

// TrendingConfig 是热门榜服务的参数。
type TrendingConfig struct {
	// Size 是入榜条数上限
	Size int

	// RefreshInterval 是背景刷新间隔
	RefreshInterval time.Duration

	// 热门度权重，与引擎同一套公式；零值取 recall 包默认
	LikeWeight  float64
	RatedWeight float64
}

// DefaultTrendingConfig 返回默认榜单参数。
func DefaultTrendingConfig() TrendingConfig {
	return TrendingConfig{
		Size:            100,
		RefreshInterval: 5 * time.Minute,
	}
}

// Trending 是热门榜服务，/api/trending 的后端。
//
// 与推荐链路里的热门兜底不同，榜单允许短暂滞后，所以走缓存：
// 读路径先查 KV（zset 排名 + hash 元数据），缓存缺位或不可用时
// 退回目录现算；写路径由背景刷新按周期重建两把键。
// 不配 KV 时纯现算，行为不变只是每次都要全量扫目录。
type Trending struct {
	repo  core.Repository
	store core.KeyValueStore
	cfg   TrendingConfig
	log   *logger.Logger
}

// NewTrending 创建热门榜服务。store 可为 nil（纯现算模式）。
func NewTrending(repo core.Repository, store core.KeyValueStore, cfg TrendingConfig, log *logger.Logger) *Trending {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Size <= 0 {
		cfg.Size = DefaultTrendingConfig().Size
	}
	return &Trending{
		repo:  repo,
		store: store,
		cfg:   cfg,
		log:   log.With("component", "trending"),
	}
}

// Top 返回热门榜前 count 条。缓存任何一步失败都降级现算，
// 榜单服务不因 KV 故障拒绝请求。
func (t *Trending) Top(ctx context.Context, count int) ([]core.Recommendation, error) {
	if count <= 0 {
		count = 10
	}
	if count > t.cfg.Size {
		count = t.cfg.Size
	}

	if t.store != nil {
		recs, err := t.fromCache(ctx, count)
		if err != nil {
			t.log.Warn("trending cache read failed", "error", err)
		} else if len(recs) > 0 {
			return recs, nil
		}
	}
	return t.compute(ctx, count)
}

// Refresh 全量重建榜单缓存。先清后写，两把键短暂不一致可接受：
// 读路径对缺位的元数据按跳过处理。
func (t *Trending) Refresh(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	recs, err := t.compute(ctx, t.cfg.Size)
	if err != nil {
		return err
	}

	if err := t.store.Delete(ctx, TrendingRankKey); err != nil {
		return err
	}
	if err := t.store.Delete(ctx, TrendingMetaKey); err != nil {
		return err
	}
	for _, rec := range recs {
		member := strconv.FormatInt(rec.BookID, 10)
		if err := t.store.ZAdd(ctx, TrendingRankKey, rec.Score, member); err != nil {
			return err
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := t.store.HSet(ctx, TrendingMetaKey, member, raw); err != nil {
			return err
		}
	}
	t.log.Debug("trending cache refreshed", "entries", len(recs))
	return nil
}

// Start 启动背景刷新，ctx 取消即停。没配 KV 或周期非法时不启动。
func (t *Trending) Start(ctx context.Context) {
	if t.store == nil || t.cfg.RefreshInterval <= 0 {
		return
	}
	go func() {
		// 起动即刷一次，避免冷缓存窗口
		if err := t.Refresh(ctx); err != nil {
			t.log.Warn("trending refresh failed", "error", err)
		}
		ticker := time.NewTicker(t.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := t.Refresh(ctx); err != nil {
					t.log.Warn("trending refresh failed", "error", err)
				}
			}
		}
	}()
}

func (t *Trending) fromCache(ctx context.Context, count int) ([]core.Recommendation, error) {
	members, err := t.store.ZRange(ctx, TrendingRankKey, 0, int64(count-1))
	if err != nil {
		return nil, err
	}
	recs := make([]core.Recommendation, 0, len(members))
	for _, member := range members {
		raw, err := t.store.HGet(ctx, TrendingMetaKey, member)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		var rec core.Recommendation
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (t *Trending) compute(ctx context.Context, count int) ([]core.Recommendation, error) {
	books, err := t.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	books = core.SanitizeBooks(books)
	if len(books) == 0 {
		return []core.Recommendation{}, nil
	}

	src := &recall.PopularitySource{
		Books:       books,
		LikeWeight:  t.cfg.LikeWeight,
		RatedWeight: t.cfg.RatedWeight,
		TopK:        count,
	}
	items, err := src.Recall(ctx, &core.RecommendContext{Count: count})
	if err != nil {
		return nil, err
	}
	return assemble(items), nil
}
