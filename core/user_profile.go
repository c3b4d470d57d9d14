package core

import "sort"

// UserProfile 是用户画像的核心抽象。
//
// 一句话定义：用户画像 = 推荐链路的"全局上下文 + 决策信号"
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享
//   - 驱动 Recall / Filter / ReRank
//   - 由行为流水（UserActivity）归并而来
//
// 设计要点：
//
//	维度          作用
//	喜欢集合      内容画像的正样本 + 出参排除
//	不喜欢集合    相似度惩罚 + 出参排除
//	评分集合      活跃度判定（不参与排除）
//	偏好声明      规则过滤（DSL 侧可用）
//
// Liked/Disliked 保持升序且去重：集合遍历顺序因此稳定，
// 同一份输入在任意次调用中产出同一份推荐（复现性约束）。
type UserProfile struct {
	UserID int64

	// 行为集合（升序、去重；经 NewUserProfile 归并后不可再改）
	Liked    []int64
	Disliked []int64

	// 评分：bookID -> 分值。只用于活跃度判定与调试展示。
	Ratings map[int64]float64

	// 用户自述偏好（可为 nil）
	Preferences *Preferences
}

// NewUserProfile 从行为流水归并出画像。
// 同一本书同时出现 like 与 dislike 时，以流水中靠后的动作为准。
func NewUserProfile(userID int64, activity UserActivity) *UserProfile {
	last := make(map[int64]ActionKind)
	for _, rec := range activity.Actions {
		switch rec.Kind {
		case ActionLike, ActionDislike:
			last[rec.BookID] = rec.Kind
		}
	}
	p := &UserProfile{
		UserID:      userID,
		Ratings:     make(map[int64]float64, len(activity.Ratings)),
		Preferences: activity.Preferences,
	}
	for id, kind := range last {
		if kind == ActionLike {
			p.Liked = append(p.Liked, id)
		} else {
			p.Disliked = append(p.Disliked, id)
		}
	}
	sort.Slice(p.Liked, func(i, j int) bool { return p.Liked[i] < p.Liked[j] })
	sort.Slice(p.Disliked, func(i, j int) bool { return p.Disliked[i] < p.Disliked[j] })
	for _, rec := range activity.Ratings {
		p.Ratings[rec.BookID] = rec.Value
	}
	return p
}

// HasPositiveSignal 判定是否进入个性化链路：
// 有喜欢或有评分即算活跃，只有不喜欢（或全空）走热门兜底。
func (p *UserProfile) HasPositiveSignal() bool {
	return len(p.Liked) > 0 || len(p.Ratings) > 0
}

// IsInteracted 判断书是否被用户明确表过态（喜欢或不喜欢）。
// 评分不算表态：打过分的书仍可回到推荐结果里。
func (p *UserProfile) IsInteracted(bookID int64) bool {
	return containsSorted(p.Liked, bookID) || containsSorted(p.Disliked, bookID)
}

// InteractedIDs 返回喜欢∪不喜欢的并集，升序。
func (p *UserProfile) InteractedIDs() []int64 {
	out := make([]int64, 0, len(p.Liked)+len(p.Disliked))
	out = append(out, p.Liked...)
	out = append(out, p.Disliked...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	// 理论上两集合互斥，这里仍保守去一次重
	n := 0
	for i, id := range out {
		if i == 0 || out[n-1] != id {
			out[n] = id
			n++
		}
	}
	return out[:n]
}

func containsSorted(ids []int64, id int64) bool {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	return i < len(ids) && ids[i] == id
}
