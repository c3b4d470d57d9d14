package rerank

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 放在链尾，把结果收敛到请求的条数。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        contentSource,            // 召回 + 打分
//	        filterNode,               // 排除已表态
//	        &rerank.Diversity{},      // 多样性
//	        topUp,                    // 热门补位
//	        &rerank.TopNNode{N: 5},   // 截取 Top 5
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则取 rctx.Count
	// 如果 N > len(items)，则返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Count
	}
	if limit <= 0 {
		return items, nil
	}

	if len(items) <= limit {
		return items, nil
	}

	return items[:limit], nil
}
