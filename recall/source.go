package recall

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// Source 表示一个可复用的召回源（内容相似/热门/...）。
// 你可以把它理解为"可独立取候选的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
