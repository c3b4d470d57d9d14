package rerank

import (
	"context"
	"math"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// DefaultDiversityFactor 是单作者占比上限的默认值。
const DefaultDiversityFactor = 0.3

// Diversity 是多样性重排节点：限制同一作者在结果里的出现次数，
// 避免"喜欢一本《沙丘》就满屏赫伯特"。
//
// 规则：
//   - 上限 = max(1, floor(输入长度 × Factor))
//   - 按原序遍历，作者已到上限的候选直接丢弃，不重排、不回填
//     （空出的名额由后续补位节点负责）
//   - 输入长度 ≤ 3 时整体放行，候选太少时多样性没有意义
//
// 输出顺序是输入顺序的子序列。
type Diversity struct {
	// Factor 是单作者占比（0 < Factor ≤ 1），0 值取默认 0.3
	Factor float64
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) <= 3 {
		return items, nil
	}

	factor := n.Factor
	if factor == 0 {
		factor = DefaultDiversityFactor
	}
	maxPerAuthor := int(math.Floor(float64(len(items)) * factor))
	if maxPerAuthor < 1 {
		maxPerAuthor = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		author := ""
		if it.Book != nil {
			author = it.Book.Author
		}
		if author == "" {
			// 作者缺失不参与计数（仓储本应在交付前过滤掉这种行）
			out = append(out, it)
			continue
		}
		if seen[author] >= maxPerAuthor {
			continue
		}
		seen[author]++
		out = append(out, it)
	}

	return out, nil
}
