package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// BlocklistFilter 是运营下架过滤器，过滤掉被屏蔽的书。
// 版权下架、内容违规的书走这里，与用户行为无关。
type BlocklistFilter struct {
	// BookIDs 是内存中的屏蔽书目 ID 列表（来自配置）
	BookIDs []int64

	// Store 用于从存储中读取动态屏蔽名单（可选）
	Store BlocklistStore

	// Key 是 Store 中的屏蔽名单 key（可选）
	Key string
}

// BlocklistStore 是屏蔽名单存储接口。
type BlocklistStore interface {
	// GetBlocklist 获取屏蔽书目 ID 列表
	GetBlocklist(ctx context.Context, key string) ([]int64, error)
}

// NewBlocklistFilter 创建一个屏蔽名单过滤器。
func NewBlocklistFilter(bookIDs []int64, storeAdapter *StoreAdapter, key string) *BlocklistFilter {
	var store BlocklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlocklistFilter{
		BookIDs: bookIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlocklistFilter) Name() string {
	return "filter.blocklist"
}

func (f *BlocklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, id := range f.BookIDs {
		if item.ID == id {
			return true, nil
		}
	}

	// 从 Store 检查
	if f.Store != nil && f.Key != "" {
		blocked, err := f.Store.GetBlocklist(ctx, f.Key)
		if err == nil {
			for _, id := range blocked {
				if item.ID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
