package core

import "time"

// ActionKind 是行为流水中的动作类型。
type ActionKind string

const (
	ActionLike     ActionKind = "like"
	ActionDislike  ActionKind = "dislike"
	ActionRating   ActionKind = "rating"
	ActionSearch   ActionKind = "search"
	ActionDownload ActionKind = "download"
)

// ActivityRecord 是一条用户行为：谁、对哪本书、做了什么。
// Value 只对 rating 有意义（1–5）；其余动作为 0。
type ActivityRecord struct {
	UserID int64
	BookID int64
	Kind   ActionKind
	Value  float64
	At     time.Time
}

// Preferences 是用户的自述偏好，来自注册问卷，可整体缺失。
// 逗号分隔的原始串，规则层（DSL）按需拆分。
type Preferences struct {
	Genres  string
	Authors string
	Books   string
}

// UserActivity 是仓储交付给引擎的行为快照。
//
//   - Actions 承载 like/dislike（含同书反复改主意的全量流水，按时间升序）
//   - Ratings 单独成列，Value 为分值
//   - 搜索/下载等弱信号当前只入流水不入画像，留给规则层消费
type UserActivity struct {
	Actions     []ActivityRecord
	Ratings     []ActivityRecord
	Preferences *Preferences
}

// Empty 表示该用户完全没有可用信号（冷启动判定的一部分）。
func (a UserActivity) Empty() bool {
	return len(a.Actions) == 0 && len(a.Ratings) == 0
}
