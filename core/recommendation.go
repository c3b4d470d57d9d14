package core

// 推荐来源标识，写入每条结果便于排查与统计。
const (
	SourceContent    = "content"    // 内容相似召回
	SourcePopularity = "popularity" // 热门兜底 / 补位
)

// Recommendation 是对外交付的一条推荐结果。
// 字段与 HTTP/CLI 出参一一对应，JSON 命名沿用上游书库接口。
type Recommendation struct {
	BookID      int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description,omitempty"`
	Genres      string  `json:"genres,omitempty"`
	Cover       string  `json:"cover,omitempty"`
	Likes       int64   `json:"likes"`
	Rating      float64 `json:"rating"`
	Score       float64 `json:"score"`
	Source      string  `json:"source"`
}

// NewRecommendation 从链路 Item 组装出参。
func NewRecommendation(it *Item, source string) Recommendation {
	rec := Recommendation{
		BookID: it.ID,
		Score:  it.Score,
		Source: source,
	}
	if b := it.Book; b != nil {
		rec.Title = b.Title
		rec.Author = b.Author
		rec.Description = b.Description
		rec.Genres = b.Genres
		rec.Cover = b.Cover
		rec.Likes = b.Likes
		rec.Rating = b.Rating
	}
	return rec
}
