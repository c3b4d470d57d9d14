package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// InteractedFilter 过滤掉用户已明确表过态的书（喜欢或不喜欢）。
//
// 这是整条链路的硬约束：已表态的书不允许出现在任何出参里，
// 内容召回和热门兜底两条路径共用这一个过滤器。
// 打过分但没表态的书不在此列，仍可被推荐。
type InteractedFilter struct{}

// NewInteractedFilter 创建已表态过滤器。
func NewInteractedFilter() *InteractedFilter {
	return &InteractedFilter{}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.User == nil {
		return false, nil
	}
	return rctx.User.IsInteracted(item.ID), nil
}
