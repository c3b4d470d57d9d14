package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/logger"
)

// 行结构映射历史库表。列名沿用老库的连写风格（userid/bookid），
// 用 tag 逐列固定，不让 gorm 的蛇形推断去猜。
type bookRow struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Title       string `gorm:"column:title"`
	Author      string `gorm:"column:author"`
	Description string `gorm:"column:description"`
	Genres      string `gorm:"column:genres"`
	Cover       string `gorm:"column:cover"`
}

func (bookRow) TableName() string { return "books" }

type likeRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:userid;index"`
	BookID    int64     `gorm:"column:bookid;index"`
	Action    string    `gorm:"column:action"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (likeRow) TableName() string { return "likes" }

type ratingRow struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:userid;index"`
	BookID    int64     `gorm:"column:bookid;index"`
	Value     float64   `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ratingRow) TableName() string { return "ratings" }

type preferenceRow struct {
	UserID  int64  `gorm:"column:userid;primaryKey"`
	Genres  string `gorm:"column:genres"`
	Authors string `gorm:"column:authors"`
	Books   string `gorm:"column:books"`
}

func (preferenceRow) TableName() string { return "preferences" }

// catalogRow 是目录聚合查询的扫描目标：书目字段 + 三个聚合信号。
type catalogRow struct {
	ID          int64
	Title       string
	Author      string
	Description string
	Genres      string
	Cover       string
	Likes       int64
	Dislikes    int64
	Rating      float64
}

// 点赞/点踩计数和平均评分在库里现算。ORDER BY b.id 固定目录顺序，
// 同一库状态下两次快照逐行一致（打分的同分 tie-break 依赖这一点）。
// 标题或作者缺失的行在 SQL 层过滤，对引擎只交付完整行。
const listBooksSQL = `
SELECT b.id, b.title, b.author, b.description, b.genres, b.cover,
       COALESCE(l.likes, 0)    AS likes,
       COALESCE(l.dislikes, 0) AS dislikes,
       COALESCE(r.rating, 0)   AS rating
FROM books b
LEFT JOIN (
    SELECT bookid,
           COUNT(*) FILTER (WHERE action = 'like')    AS likes,
           COUNT(*) FILTER (WHERE action = 'dislike') AS dislikes
    FROM likes
    GROUP BY bookid
) l ON l.bookid = b.id
LEFT JOIN (
    SELECT bookid, AVG(value) AS rating
    FROM ratings
    GROUP BY bookid
) r ON r.bookid = b.id
WHERE b.title IS NOT NULL AND b.title <> ''
  AND b.author IS NOT NULL AND b.author <> ''
ORDER BY b.id
`

// PostgresRepository 是 Postgres 实现的仓储，面向原始书目库。
type PostgresRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresRepository 按 DSN 建连。gorm 自带的 SQL 日志静音，
// 慢查询与错误由仓储自己的 Logger 记。
func NewPostgresRepository(dsn string, log *logger.Logger) (*PostgresRepository, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, core.ErrRepositoryUnavailable.WithCause(err)
	}
	return &PostgresRepository{
		db:  db,
		log: log.With("component", "catalog.postgres"),
	}, nil
}

// AutoMigrate 建表/补列，供本地开发与示例环境使用；
// 线上库表已有时不需要调用。
func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&bookRow{}, &likeRow{}, &ratingRow{}, &preferenceRow{})
}

// DB 暴露底层句柄，灌数据脚本用。
func (r *PostgresRepository) DB() *gorm.DB { return r.db }

func (r *PostgresRepository) ListBooks(ctx context.Context) ([]core.Book, error) {
	started := time.Now()
	var rows []catalogRow
	if err := r.db.WithContext(ctx).Raw(listBooksSQL).Scan(&rows).Error; err != nil {
		return nil, core.ErrRepositoryUnavailable.WithCause(err)
	}

	books := make([]core.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, core.Book{
			ID:          row.ID,
			Title:       row.Title,
			Author:      row.Author,
			Description: row.Description,
			Genres:      row.Genres,
			Cover:       row.Cover,
			Likes:       row.Likes,
			Dislikes:    row.Dislikes,
			Rating:      row.Rating,
		})
	}
	r.log.Debug("catalog snapshot loaded", "books", len(books), "elapsed", time.Since(started))
	return books, nil
}

func (r *PostgresRepository) GetUserActivity(ctx context.Context, userID int64) (core.UserActivity, error) {
	var activity core.UserActivity

	// 流水按插入顺序（自增 id）交付，画像归并的"后者优先"靠它
	var likes []likeRow
	if err := r.db.WithContext(ctx).
		Where("userid = ?", userID).
		Order("id").
		Find(&likes).Error; err != nil {
		return core.UserActivity{}, core.ErrRepositoryUnavailable.WithCause(err)
	}
	for _, row := range likes {
		kind, ok := actionKind(row.Action)
		if !ok {
			continue
		}
		activity.Actions = append(activity.Actions, core.ActivityRecord{
			UserID: row.UserID,
			BookID: row.BookID,
			Kind:   kind,
			At:     row.CreatedAt,
		})
	}

	var ratings []ratingRow
	if err := r.db.WithContext(ctx).
		Where("userid = ?", userID).
		Order("id").
		Find(&ratings).Error; err != nil {
		return core.UserActivity{}, core.ErrRepositoryUnavailable.WithCause(err)
	}
	for _, row := range ratings {
		activity.Ratings = append(activity.Ratings, core.ActivityRecord{
			UserID: row.UserID,
			BookID: row.BookID,
			Kind:   core.ActionRating,
			Value:  row.Value,
			At:     row.CreatedAt,
		})
	}

	var pref preferenceRow
	err := r.db.WithContext(ctx).Where("userid = ?", userID).First(&pref).Error
	switch {
	case err == nil:
		activity.Preferences = &core.Preferences{
			Genres:  pref.Genres,
			Authors: pref.Authors,
			Books:   pref.Books,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 没填问卷，正常
	default:
		return core.UserActivity{}, core.ErrRepositoryUnavailable.WithCause(err)
	}

	return activity, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return core.ErrRepositoryUnavailable.WithCause(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return core.ErrRepositoryUnavailable.WithCause(err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// actionKind 把库里的 action 列翻译成领域动作；认不出的值跳过。
func actionKind(action string) (core.ActionKind, bool) {
	switch action {
	case string(core.ActionLike):
		return core.ActionLike, true
	case string(core.ActionDislike):
		return core.ActionDislike, true
	default:
		return "", false
	}
}

var _ core.Repository = (*PostgresRepository)(nil)
