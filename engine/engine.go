package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/feature"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/logger"
	"github.com/rushteam/bookrec/recall"
	"github.com/rushteam/bookrec/rerank"
)

// Config 是引擎的打分口径，全部有默认值，配置只改关心的项。
// YAML 形态由 config 包负责映射，这里只是纯 Go 结构。
type Config struct {
	// PenaltyWeight 是不喜欢集合的相似度惩罚系数
	PenaltyWeight float64

	// DiversityFactor 是同作者数量上限系数（见 rerank.Diversity）
	DiversityFactor float64

	// LikeWeight / RatedWeight 是热门度公式的两个权重
	LikeWeight  float64
	RatedWeight float64

	// DefaultCount 是未指定 count 时的返回条数
	DefaultCount int

	// MaxCount 是单次请求的条数上限，超过按上限截断
	MaxCount int

	// Rules 是 CEL 目录规则，命中即从候选剔除（如按题材下架）
	Rules []string

	// Blocklist 是静态书目黑名单
	Blocklist []int64

	// Vectorizer 是文本向量化参数，零值取 feature 包默认
	Vectorizer feature.VectorizerConfig
}

// DefaultConfig 返回全默认配置。
func DefaultConfig() Config {
	return Config{
		PenaltyWeight:   0.3,
		DiversityFactor: rerank.DefaultDiversityFactor,
		LikeWeight:      recall.DefaultLikeWeight,
		RatedWeight:     recall.DefaultRatedWeight,
		DefaultCount:    5,
		MaxCount:        50,
		Vectorizer:      feature.DefaultVectorizerConfig(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PenaltyWeight <= 0 {
		c.PenaltyWeight = def.PenaltyWeight
	}
	if c.DiversityFactor <= 0 {
		c.DiversityFactor = def.DiversityFactor
	}
	if c.LikeWeight <= 0 {
		c.LikeWeight = def.LikeWeight
	}
	if c.RatedWeight <= 0 {
		c.RatedWeight = def.RatedWeight
	}
	if c.DefaultCount <= 0 {
		c.DefaultCount = def.DefaultCount
	}
	if c.MaxCount <= 0 {
		c.MaxCount = def.MaxCount
	}
	return c
}

// Request 是一次推荐请求的入参。
type Request struct {
	// UserID 必填且为正；合法性由调用方保证，这里再兜一道
	UserID int64

	// Count 期望条数；<=0 取 DefaultCount，超过 MaxCount 截断
	Count int

	// ExcludeID 当前浏览的书，>0 时从结果剔除
	ExcludeID int64
}

// Engine 是推荐引擎的对外入口。
//
// 一次 Recommend 的全过程：
//
//	仓储快照（目录 + 行为，并发取）
//	  → 目录清洗 → 特征矩阵（每次请求重建）
//	  → 画像归并 → 选链路（个性化 / 热门兜底）
//	  → Node 链执行 → 出参组装
//
// 引擎不持有任何跨请求状态，同一实例可被任意并发调用；
// 代价是每次请求都要对全目录重建一次向量化（目录小的时候可接受）。
type Engine struct {
	cfg     Config
	repo    core.Repository
	builder *feature.Builder
	rules   []filter.Filter
	log     *logger.Logger
}

// New 创建引擎。规则表达式在这里一次性编译，编译失败直接拒绝启动。
func New(repo core.Repository, cfg Config, log *logger.Logger) (*Engine, error) {
	if repo == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: repository is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	cfg = cfg.withDefaults()

	rules := make([]filter.Filter, 0, len(cfg.Rules))
	for _, expr := range cfg.Rules {
		rf, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rf)
	}

	return &Engine{
		cfg:     cfg,
		repo:    repo,
		builder: feature.NewBuilder(cfg.Vectorizer),
		rules:   rules,
		log:     log.With("component", "engine"),
	}, nil
}

// Recommend 为一个用户产出一份推荐列表。
//
// 两个"像错误但不是错误"的情形：空目录返回空列表，
// 冷启动用户返回热门榜。只有仓储失败会让调用失败。
func (e *Engine) Recommend(ctx context.Context, req Request) ([]core.Recommendation, error) {
	if req.UserID <= 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine: user id must be positive")
	}
	count := req.Count
	if count <= 0 {
		count = e.cfg.DefaultCount
	}
	if count > e.cfg.MaxCount {
		count = e.cfg.MaxCount
	}

	started := time.Now()
	books, activity, err := e.fetch(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	books = core.SanitizeBooks(books)
	if len(books) == 0 {
		e.log.Debug("empty catalog", "user_id", req.UserID)
		return []core.Recommendation{}, nil
	}

	// 特征矩阵无条件重建：目录变了相似度几何就变了，
	// 旧词表对新目录是悄悄出错，不是省计算
	set := e.builder.Build(books)
	profile := core.NewUserProfile(req.UserID, activity)

	rctx := &core.RecommendContext{
		UserID:    req.UserID,
		Count:     count,
		ExcludeID: req.ExcludeID,
		User:      profile,
	}

	var (
		chain *pipeline.Pipeline
		path  string
	)
	if profile.HasPositiveSignal() {
		chain = e.personalized(set, books, count)
		path = core.SourceContent
	} else {
		chain = e.fallback(books)
		path = core.SourcePopularity
	}

	items, err := chain.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	recs := assemble(items)
	e.log.Debug("recommend done",
		"user_id", req.UserID,
		"path", path,
		"count", count,
		"returned", len(recs),
		"liked", len(profile.Liked),
		"disliked", len(profile.Disliked),
		"elapsed", time.Since(started),
	)
	return recs, nil
}

// fetch 并发拉取目录快照与行为快照，任一失败整个调用失败。
func (e *Engine) fetch(ctx context.Context, userID int64) ([]core.Book, core.UserActivity, error) {
	var (
		books    []core.Book
		activity core.UserActivity
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		books, err = e.repo.ListBooks(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		activity, err = e.repo.GetUserActivity(gctx, userID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, core.UserActivity{}, err
	}
	return books, activity, nil
}

// personalized 组装个性化链路：
// 内容召回 → 过滤 → 多样性 → 热门补位 → 截断。
// 只有评分没有喜欢的用户也走这条链：内容召回给不出候选，
// 结果整段由补位填满，等价于过滤后的热门榜。
func (e *Engine) personalized(set *feature.Set, books []core.Book, count int) *pipeline.Pipeline {
	filters := e.filters()
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.ContentSource{
				Set:           set,
				PenaltyWeight: e.cfg.PenaltyWeight,
				TopK:          count * 2,
			},
			&filter.FilterNode{Filters: filters},
			&rerank.Diversity{Factor: e.cfg.DiversityFactor},
			&rerank.TopUpNode{
				Source:  e.popularity(books),
				Filters: filters,
				Target:  count,
			},
			&rerank.TopNNode{N: count},
		},
	}
}

// fallback 组装热门兜底链路。召回不限量，过滤可能剔掉若干热门
// （仅点踩的用户、当前浏览中的书），截断放在最后保证足额。
func (e *Engine) fallback(books []core.Book) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			e.popularity(books),
			&filter.FilterNode{Filters: e.filters()},
			&rerank.TopNNode{},
		},
	}
}

func (e *Engine) popularity(books []core.Book) *recall.PopularitySource {
	return &recall.PopularitySource{
		Books:       books,
		LikeWeight:  e.cfg.LikeWeight,
		RatedWeight: e.cfg.RatedWeight,
	}
}

// filters 返回两条链路共用的过滤器组，顺序即检查顺序。
func (e *Engine) filters() []filter.Filter {
	fs := []filter.Filter{
		filter.NewInteractedFilter(),
		filter.NewExcludeFilter(),
	}
	if len(e.cfg.Blocklist) > 0 {
		fs = append(fs, filter.NewBlocklistFilter(e.cfg.Blocklist, nil, ""))
	}
	fs = append(fs, e.rules...)
	return fs
}

// assemble 把链路 Item 落成出参，来源取召回阶段打的 label。
func assemble(items []*core.Item) []core.Recommendation {
	recs := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		source := core.SourceContent
		if lbl, ok := it.Labels["recall_source"]; ok && lbl.Value != "" {
			source = lbl.Value
		}
		recs = append(recs, core.NewRecommendation(it, source))
	}
	return recs
}
