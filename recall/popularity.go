package recall

import (
	"context"
	"sort"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// 热门度权重的默认值。点赞量直接贡献四成，评分必须乘上点赞量才贡献六成：
// 没有被验证过的高分不应压过已被证明的需求。
const (
	DefaultLikeWeight  = 0.4
	DefaultRatedWeight = 0.6
)

// PopularitySource 是热门召回源：对目录快照按热门度公式排序。
//
//	popularity = likes × LikeWeight + rating × likes × RatedWeight
//
// 冷启动用户直接用它产出结果；个性化链路不足额时用它补位。
// 每次 Recall 都在传入的目录快照上现算，不读任何缓存——
// 榜单缓存是 /api/trending 的事，推荐出参必须跟着目录走。
// PopularitySource 同时实现 Source 和 Node 接口，可以直接入链。
type PopularitySource struct {
	// Books 是本次请求的目录快照（已 Sanitize）
	Books []core.Book

	// LikeWeight / RatedWeight 为 0 时取默认值
	LikeWeight  float64
	RatedWeight float64

	// TopK 是返回的候选上限；<=0 返回全量排序结果
	TopK int
}

func (r *PopularitySource) Name() string        { return "recall.popularity" }
func (r *PopularitySource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *PopularitySource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *PopularitySource) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	likeWeight := r.LikeWeight
	if likeWeight == 0 {
		likeWeight = DefaultLikeWeight
	}
	ratedWeight := r.RatedWeight
	if ratedWeight == 0 {
		ratedWeight = DefaultRatedWeight
	}

	// 目录顺序建序，稳定排序保证同分时维持目录顺序
	idx := make([]int, len(r.Books))
	for i := range idx {
		idx[i] = i
	}
	scores := make([]float64, len(r.Books))
	for i := range r.Books {
		scores[i] = r.Books[i].PopularityScore(likeWeight, ratedWeight)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	limit := len(idx)
	if r.TopK > 0 && r.TopK < limit {
		limit = r.TopK
	}

	out := make([]*core.Item, 0, limit)
	for _, i := range idx[:limit] {
		it := core.NewBookItem(&r.Books[i])
		it.Score = scores[i]
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
