package catalog

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/logger"
)

// signalsRepository 在目录快照上叠加特征库的在线信号：
// 点赞/点踩计数和平均评分以特征库为准，命中不到的书保留库内聚合值。
// 信号库不可用时降级为原始快照，不拦推荐。
type signalsRepository struct {
	core.Repository
	signals core.SignalService
	log     *logger.Logger
}

// WithSignals 包装仓储，ListBooks 时叠加在线信号。
// signals 为 nil 时原样返回，调用方不必分支。
// SignalService 的生命周期归调用方管，这里只用不关。
func WithSignals(repo core.Repository, signals core.SignalService, log *logger.Logger) core.Repository {
	if signals == nil {
		return repo
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &signalsRepository{
		Repository: repo,
		signals:    signals,
		log:        log.With("component", "catalog.signals"),
	}
}

func (r *signalsRepository) ListBooks(ctx context.Context) ([]core.Book, error) {
	books, err := r.Repository.ListBooks(ctx)
	if err != nil || len(books) == 0 {
		return books, err
	}

	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	overlay, err := r.signals.BatchGetBookSignals(ctx, ids)
	if err != nil {
		r.log.Warn("signal overlay skipped", "source", r.signals.Name(), "error", err)
		return books, nil
	}

	replaced := 0
	for i := range books {
		if s, ok := overlay[books[i].ID]; ok {
			books[i].Likes = s.Likes
			books[i].Dislikes = s.Dislikes
			books[i].Rating = s.Rating
			replaced++
		}
	}
	r.log.Debug("signal overlay applied", "books", len(books), "replaced", replaced)
	return books, nil
}
