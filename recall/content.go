package recall

import (
	"context"
	"sort"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/feature"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// ContentSource 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些特征的书，推荐具有相似特征的其他书"
//
// 打分口径：
//   - 正向亲和 = 候选与每本喜欢的书的余弦相似度的算术平均
//   - 负向亲和同理（对不喜欢集合）
//   - 最终分 = 正向亲和 − PenaltyWeight × 负向亲和，惩罚只减一次
//
// 前置条件：喜欢集合非空。只有不喜欢记录的画像没有正样本，
// 这里直接返回空候选，由热门兜底接管。
type ContentSource struct {
	// Set 是本次请求构建的特征集，行与目录快照对齐
	Set *feature.Set

	// PenaltyWeight 是负向亲和的惩罚系数。
	// 负反馈要起作用但不能盖过正反馈，默认 0.3，调整走配置。
	PenaltyWeight float64

	// TopK 是返回的候选上限；<=0 时取 2×rctx.Count，给多样性重排留余量。
	TopK int
}

func (r *ContentSource) Name() string        { return "recall.content" }
func (r *ContentSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ContentSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ContentSource) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Set == nil || r.Set.Len() == 0 || rctx == nil || rctx.User == nil {
		return nil, nil
	}
	user := rctx.User
	if len(user.Liked) == 0 {
		return nil, nil
	}

	// 表态的书映射到矩阵行；不在当前目录里的记录直接跳过。
	// Liked/Disliked 升序，这里得到的行序列因此是确定的。
	likedRows := rowsOf(r.Set, user.Liked)
	if len(likedRows) == 0 {
		return nil, nil
	}
	dislikedRows := rowsOf(r.Set, user.Disliked)

	// 逐候选打分，目录顺序遍历
	n := r.Set.Len()
	type scored struct {
		row   int
		score float64
	}
	scores := make([]scored, 0, n)
	for i := 0; i < n; i++ {
		likedAff := meanSimilarity(r.Set, i, likedRows)
		score := likedAff
		if len(dislikedRows) > 0 {
			score -= r.PenaltyWeight * meanSimilarity(r.Set, i, dislikedRows)
		}
		scores = append(scores, scored{row: i, score: score})
	}

	// 分数降序；同分保持目录顺序（稳定排序），输出才可复现
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	topK := r.TopK
	if topK <= 0 && rctx.Count > 0 {
		topK = rctx.Count * 2
	}

	out := make([]*core.Item, 0, topK)
	for _, s := range scores {
		book := &r.Set.Books[s.row]
		// 已表态的书在截断前剔除，名额不被占用
		if user.IsInteracted(book.ID) {
			continue
		}
		it := core.NewBookItem(book)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
		if topK > 0 && len(out) >= topK {
			break
		}
	}
	return out, nil
}

// rowsOf 把 ID 集合换成矩阵行号，保持入参顺序，目录缺失的丢弃。
func rowsOf(set *feature.Set, ids []int64) []int {
	rows := make([]int, 0, len(ids))
	for _, id := range ids {
		if row := set.RowOf(id); row >= 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// meanSimilarity 返回候选行与一组行的平均余弦相似度。
func meanSimilarity(set *feature.Set, row int, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += set.Similarity(row, r)
	}
	return sum / float64(len(rows))
}
