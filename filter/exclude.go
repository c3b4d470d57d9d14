package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// ExcludeFilter 过滤掉请求指定排除的那本书。
// "看了这本还可以看"的详情页场景下，当前书不应出现在自己的推荐位里。
type ExcludeFilter struct{}

// NewExcludeFilter 创建请求级排除过滤器。
func NewExcludeFilter() *ExcludeFilter {
	return &ExcludeFilter{}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.ExcludeID == 0 {
		return false, nil
	}
	return item.ID == rctx.ExcludeID, nil
}
