// Package bookrec 是一个图书推荐引擎（Book Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank），
//   个性化链路与热门兜底链路是同一套 Node 的不同组合
// - 内容相似 + 行为画像: TF-IDF 余弦相似做召回，点赞/点踩/评分归并成画像
// - 冷启动有兜底: 没有正向信号的用户自动退到热门榜，永远给得出结果
package bookrec

import "github.com/rushteam/bookrec/pipeline"

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
