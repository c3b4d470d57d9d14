package feature

import (
	"github.com/rushteam/bookrec/core"
)

// numericCols 是附在文本块之后的数值列数：点赞数、平均评分。
const numericCols = 2

// Set 是一次构建产出的特征集：矩阵行与书目快照按下标对齐。
type Set struct {
	Matrix  *Matrix
	Books   []core.Book
	Terms   []string // 文本词表（字典序），调试与测试用
	rowByID map[int64]int
}

// Len 返回书目数量。
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Books)
}

// RowOf 按书 ID 查行号，查不到返回 -1。
func (s *Set) RowOf(bookID int64) int {
	if s == nil {
		return -1
	}
	if i, ok := s.rowByID[bookID]; ok {
		return i
	}
	return -1
}

// Similarity 返回两本书（按行号）的余弦相似度。
func (s *Set) Similarity(i, j int) float64 {
	return Cosine(s.Matrix.Row(i), s.Matrix.Row(j))
}

// Builder 把目录快照变成特征矩阵：
// 文本块（TF-IDF，L2 归一化）+ 两列标准化数值（点赞、评分）。
//
// Builder 无状态：词表与标准化统计量都在本次 Build 内拟合、随 Set 丢弃，
// 跨请求不复用。目录一变，相似度几何必须跟着变。
type Builder struct {
	cfg VectorizerConfig
}

// NewBuilder 创建特征构建器。
func NewBuilder(cfg VectorizerConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build 在目录快照上构建特征集。
// 入参应已经过 core.SanitizeBooks（数值缺失归零在入口处做一次，这里不重复）。
// 空目录返回空 Set，不报错。
func (b *Builder) Build(books []core.Book) *Set {
	set := &Set{
		Books:   books,
		rowByID: make(map[int64]int, len(books)),
	}
	for i := range books {
		set.rowByID[books[i].ID] = i
	}
	if len(books) == 0 {
		set.Matrix = &Matrix{}
		return set
	}

	docs := make([]string, len(books))
	likes := make([]float64, len(books))
	ratings := make([]float64, len(books))
	for i := range books {
		docs[i] = Document(&books[i])
		likes[i] = float64(books[i].Likes)
		ratings[i] = books[i].Rating
	}

	matrix, terms := NewVectorizer(b.cfg).FitTransform(docs)
	set.Terms = terms

	likeScaler := FitScaler(likes)
	ratingScaler := FitScaler(ratings)

	// 数值列固定附在词表之后：likes 列、rating 列。
	// 显式写入（含 0 值），行结构与目录无关地保持两列齐全。
	likeCol := int32(matrix.Cols)
	ratingCol := likeCol + 1
	for i := range matrix.Rows {
		row := &matrix.Rows[i]
		row.Append(likeCol, likeScaler.Transform(likes[i]))
		row.Append(ratingCol, ratingScaler.Transform(ratings[i]))
	}
	matrix.Cols += numericCols

	set.Matrix = matrix
	return set
}
