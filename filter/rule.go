package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/dsl"
)

// RuleFilter 是规则过滤器：候选必须满足 CEL 表达式才保留。
// 表达式在构造时编译一次，对每个候选只做求值。
//
// 示例：
//   - `book.likes >= 1` → 只推有人点过赞的书
//   - `!(book.genres.contains("Horror"))` → 屏蔽某类目
//   - `label.recall_source != null` → 只保留带召回标记的候选
type RuleFilter struct {
	prg *dsl.Program
}

// NewRuleFilter 编译 keep 表达式并创建规则过滤器。
// 空表达式合法（恒保留）；编译失败直接返回错误，坏规则不允许带病上线。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{prg: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.prg.Eval(item, rctx)
	if err != nil {
		// 求值错误交给上层决定；FilterNode 的策略是放行
		return false, err
	}
	return !keep, nil
}
