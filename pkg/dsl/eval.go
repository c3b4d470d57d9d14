package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("book", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Program 是一条编译好的规则表达式，使用 CEL (Common Expression Language) 实现。
// 规则过滤场景下同一条表达式要对每个候选执行一次，
// 所以编译放在构造期，Eval 只做求值。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：book.author != "Unknown" / label.recall_source == "content"
//   - 数值：item.score > 0.7 / book.rating >= 3.0
//   - 逻辑：book.genres.contains("Fantasy") && item.score > 0.5
//   - 存在性：label.recall_source != null
//
// 示例：
//   - `book.likes >= 1` → 过滤掉零点赞的书
//   - `!(book.genres.contains("Horror"))` → 屏蔽某类目
//   - `rctx.user.prefer_genres.contains("Sci-Fi")` → 引用画像偏好
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 DSL 表达式。空表达式合法，求值恒为 true。
func Compile(expr string) (*Program, error) {
	p := &Program{expr: expr}
	if expr == "" {
		return p, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	p.prg = prg
	return p, nil
}

// Eval 对单个候选执行表达式，返回布尔结果。
// 注意：CEL 访问不存在的 key 会报错，用 label.key != null 检查存在性。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// String 返回原始表达式，用于日志。
func (p *Program) String() string { return p.expr }

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	// label.recall_source 直接取 value；需要 source 时走 item.labels
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		labelAccessor[k] = v.Value
	}

	book := map[string]any{}
	if b := item.Book; b != nil {
		book = map[string]any{
			"id":          b.ID,
			"title":       b.Title,
			"author":      b.Author,
			"description": b.Description,
			"genres":      b.Genres,
			"likes":       b.Likes,
			"dislikes":    b.Dislikes,
			"rating":      b.Rating,
		}
	}

	itemMap := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"book":   book,
		"labels": labels,
	}

	user := map[string]any{}
	if rctx != nil && rctx.User != nil {
		u := map[string]any{
			"liked_count":    len(rctx.User.Liked),
			"disliked_count": len(rctx.User.Disliked),
			"rated_count":    len(rctx.User.Ratings),
		}
		if prefs := rctx.User.Preferences; prefs != nil {
			u["prefer_genres"] = prefs.Genres
			u["prefer_authors"] = prefs.Authors
			u["prefer_books"] = prefs.Books
		}
		user = u
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		rctxMap = map[string]any{
			"user_id":    rctx.UserID,
			"count":      rctx.Count,
			"exclude_id": rctx.ExcludeID,
			"user":       user,
			"params":     rctx.Params,
		}
	}

	return map[string]any{
		"item":  itemMap,
		"book":  book,
		"label": labelAccessor,
		"rctx":  rctxMap,
	}
}
