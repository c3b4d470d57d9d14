package core

import "github.com/rushteam/bookrec/pkg/utils"

// RecommendContext 承载单次请求的用户/场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64

	// Count 是期望返回的条数（已在入口处归一到 >0）。
	Count int

	// ExcludeID 是"看了这本还可以看"场景下的当前书；0 表示未指定。
	// 它只做出参排除，不参与画像。
	ExcludeID int64

	// User 是归并后的强类型画像；冷启动时为 nil 或无正信号。
	User *UserProfile

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、重度用户等
	Labels map[string]utils.Label

	// Params 请求级上下文参数：query、device_type 等，规则层（DSL）可引用。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// Interacted 返回画像中的表态集合；画像缺失时为空。
func (rctx *RecommendContext) Interacted() []int64 {
	if rctx.User == nil {
		return nil
	}
	return rctx.User.InteractedIDs()
}
