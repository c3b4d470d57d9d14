package core

import "math"

// MaxRating 是目录中平均评分的上限（1–5 星制，沿用上游书库的打分口径）。
const MaxRating = 5.0

// Book 是目录中的一本书：推荐引擎的输入实体。
//
// 约定：
//   - 在单次推荐请求内视为不可变；每次请求都从仓储重新取目录快照
//   - Title/Author 必须非空（仓储在交付前负责过滤脏行）
//   - Genres 是上游原样的标签串（逗号分隔），由特征层参与文本向量化
type Book struct {
	ID          int64
	Title       string
	Author      string
	Description string
	Genres      string
	Cover       string

	// 行为统计（缺失按 0 处理，见 Sanitize）
	Likes    int64
	Dislikes int64
	Rating   float64 // 平均评分，[0, MaxRating]
}

// Sanitize 把缺失/越界的数值字段归一到合法域。
// 整条链路只在目录进入引擎时做一次（特征构建与热门排序共用同一份结果），
// 避免 NaN/负值在各阶段被零散修补。
func (b *Book) Sanitize() {
	if b.Likes < 0 {
		b.Likes = 0
	}
	if b.Dislikes < 0 {
		b.Dislikes = 0
	}
	if math.IsNaN(b.Rating) || math.IsInf(b.Rating, 0) || b.Rating < 0 {
		b.Rating = 0
	}
	if b.Rating > MaxRating {
		b.Rating = MaxRating
	}
}

// SanitizeBooks 对目录快照就地做一轮 Sanitize，返回原切片便于链式调用。
func SanitizeBooks(books []Book) []Book {
	for i := range books {
		books[i].Sanitize()
	}
	return books
}

// PopularityScore 是热门度公式：likes×0.4 + rating×likes×0.6。
// 零点赞的书恒为 0——没有被验证过的高分不应压过已被证明的需求。
// 权重是刻意的设计取值，调整入口在 engine 配置，不要在这里改。
func (b *Book) PopularityScore(likeWeight, ratedWeight float64) float64 {
	likes := float64(b.Likes)
	return likes*likeWeight + b.Rating*likes*ratedWeight
}
