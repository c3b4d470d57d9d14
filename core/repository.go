package core

import "context"

// Repository 是目录与行为数据的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（catalog）实现
//   - 引擎每次请求都走 ListBooks / GetUserActivity 取最新快照，
//     不在引擎内做任何跨请求缓存
//
// 实现：
//   - catalog.PostgresRepository（线上）
//   - catalog.MemoryRepository（测试 / 示例）
type Repository interface {
	// ListBooks 返回全量目录快照。空目录返回空切片而非错误。
	ListBooks(ctx context.Context) ([]Book, error)

	// GetUserActivity 返回指定用户的行为快照。
	// 用户无任何记录时返回零值 UserActivity 而非错误。
	GetUserActivity(ctx context.Context, userID int64) (UserActivity, error)

	// Ping 探活，供健康检查使用。
	Ping(ctx context.Context) error

	// Close 关闭连接/释放资源
	Close() error
}

// ErrRepositoryUnavailable 表示底层数据库不可达，是唯一会向调用方
// 透传的仓储错误（空目录、无行为都按正常数据处理）。
var ErrRepositoryUnavailable = NewDomainError(ModuleRepository, ErrorCodeUnavailable, "repository: backend unavailable")
