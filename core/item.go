package core

import "github.com/rushteam/bookrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选书、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
// Book 指向目录快照中的行，链路各节点只读不改。
type Item struct {
	ID     int64
	Score  float64
	Book   *Book
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// NewBookItem 从目录行构造 Item，ID 与 Book.ID 保持一致。
func NewBookItem(b *Book) *Item {
	it := NewItem(b.ID)
	it.Book = b
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
