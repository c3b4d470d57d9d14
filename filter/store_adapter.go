package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/bookrec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 屏蔽名单在 Store 里存为 JSON 的 ID 数组，运营侧直接改 key 即可生效。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlocklist 从 Store 读取屏蔽名单。key 不存在视为空名单。
func (a *StoreAdapter) GetBlocklist(ctx context.Context, key string) ([]int64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}
