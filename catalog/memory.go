package catalog

import (
	"context"
	"sync"

	"github.com/rushteam/bookrec/core"
)

// MemoryRepository 是内存仓储，用于测试、示例与本地开发。
// 目录按设置顺序保存（即目录顺序），行为流水按写入顺序保存。
type MemoryRepository struct {
	mu       sync.RWMutex
	books    []core.Book
	activity map[int64]core.UserActivity
}

func NewMemoryRepository(books ...core.Book) *MemoryRepository {
	r := &MemoryRepository{activity: make(map[int64]core.UserActivity)}
	r.SetBooks(books)
	return r
}

// SetBooks 整体替换目录。标题或作者缺失的行在入口处过滤，
// 仓储对引擎承诺交付的每一行都是完整的。
func (r *MemoryRepository) SetBooks(books []core.Book) {
	kept := make([]core.Book, 0, len(books))
	for _, b := range books {
		if b.Title == "" || b.Author == "" {
			continue
		}
		kept = append(kept, b)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = kept
}

// RecordAction 追加一条行为流水。评分入 Ratings，其余动作入 Actions。
func (r *MemoryRepository) RecordAction(rec core.ActivityRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity := r.activity[rec.UserID]
	if rec.Kind == core.ActionRating {
		activity.Ratings = append(activity.Ratings, rec)
	} else {
		activity.Actions = append(activity.Actions, rec)
	}
	r.activity[rec.UserID] = activity
}

// SetPreferences 记录用户自述偏好。
func (r *MemoryRepository) SetPreferences(userID int64, prefs core.Preferences) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity := r.activity[userID]
	activity.Preferences = &prefs
	r.activity[userID] = activity
}

func (r *MemoryRepository) ListBooks(_ context.Context) ([]core.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Book, len(r.books))
	copy(out, r.books)
	return out, nil
}

func (r *MemoryRepository) GetUserActivity(_ context.Context, userID int64) (core.UserActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activity[userID]
	if !ok {
		// 没有记录不是错误，零值快照就是冷启动
		return core.UserActivity{}, nil
	}
	out := core.UserActivity{
		Actions: make([]core.ActivityRecord, len(activity.Actions)),
		Ratings: make([]core.ActivityRecord, len(activity.Ratings)),
	}
	copy(out.Actions, activity.Actions)
	copy(out.Ratings, activity.Ratings)
	if activity.Preferences != nil {
		prefs := *activity.Preferences
		out.Preferences = &prefs
	}
	return out, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }

var _ core.Repository = (*MemoryRepository)(nil)
