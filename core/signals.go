package core

import "context"

// BookSignals 是一本书的实时行为统计。
// 覆盖目录快照里的静态计数，用于目录落库滞后于行为流的场景。
type BookSignals struct {
	Likes    int64
	Dislikes int64
	Rating   float64
}

// SignalService 是行为信号服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feast）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 可选依赖：未配置时引擎直接用目录快照里的静态计数
//
// 使用场景：
//   - 从特征平台批量拉取书目的实时点赞/评分计数
//   - 叠加到目录快照上（catalog.WithSignals）
//
// 实现：
//   - feast.SignalService 实现此接口
type SignalService interface {
	// Name 返回信号服务名称（用于日志/监控）
	Name() string

	// BatchGetBookSignals 批量获取书目信号；缺失的 ID 不出现在结果里。
	BatchGetBookSignals(ctx context.Context, bookIDs []int64) (map[int64]BookSignals, error)

	// Close 关闭信号服务，释放资源
	Close(ctx context.Context) error
}
