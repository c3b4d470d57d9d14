package rerank

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/recall"
)

// TopUpNode 是补位节点：个性化结果不足额时，从兜底召回源取候选补齐。
//
// 约束：
//   - 已在结果里的书不重复补入
//   - 兜底候选同样要过一遍过滤器（已表态/当前书/规则），
//     只有不喜欢记录的用户走热门时，不喜欢的书也进不了结果
//   - 追加在尾部，不打乱前面的排序
type TopUpNode struct {
	// Source 是兜底召回源（热门）
	Source recall.Source

	// Filters 是补位候选要通过的过滤器，与主链共用一组
	Filters []filter.Filter

	// Target 是补齐后的目标长度；<=0 时取 rctx.Count
	Target int
}

func (n *TopUpNode) Name() string {
	return "rerank.topup"
}

func (n *TopUpNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopUpNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	target := n.Target
	if target <= 0 && rctx != nil {
		target = rctx.Count
	}
	if target <= 0 || len(items) >= target || n.Source == nil {
		return items, nil
	}

	candidates, err := n.Source.Recall(ctx, rctx)
	if err != nil {
		// 兜底失败不拖垮主结果，缺额就缺额
		return items, nil
	}

	present := make(map[int64]bool, len(items))
	for _, it := range items {
		present[it.ID] = true
	}

	out := items
	for _, cand := range candidates {
		if len(out) >= target {
			break
		}
		if cand == nil || present[cand.ID] {
			continue
		}
		if filter.Apply(ctx, n.Filters, rctx, cand) {
			continue
		}
		present[cand.ID] = true
		out = append(out, cand)
	}
	return out, nil
}
