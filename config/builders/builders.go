// Package builders 在 init 中注册内置 Node 的配置构建器。
// 入口处 import _ 本包后，即可用 YAML/JSON 配置驱动 pipeline 组装。
package builders

import (
	"fmt"

	"github.com/rushteam/bookrec/config"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/conv"
	"github.com/rushteam/bookrec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("recall.content", BuildContentNode)
	config.Register("recall.popularity", BuildPopularityNode)
	config.Register("rerank.topup", BuildTopUpNode)
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "interacted":
			filters = append(filters, filter.NewInteractedFilter())
		case "exclude":
			filters = append(filters, filter.NewExcludeFilter())
		case "blocklist":
			ids := conv.SliceAnyToInt64(filterMap["book_ids"])
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlocklistFilter(ids, nil, key))
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr not found")
			}
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rf)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		Factor: conv.ConfigGetFloat64(cfg, "factor", 0),
	}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: conv.ConfigGetInt(cfg, "n", 0),
	}, nil
}

// 召回与补齐绑定运行期数据（特征矩阵 / 目录快照），不从配置构建，
// 由 engine 在请求链路里组装；注册出错误是为了让配置校验报得明白。

func BuildContentNode(cfg map[string]any) (pipeline.Node, error) {
	return nil, fmt.Errorf("content recall binds the per-request feature matrix; construct it in code (supported from config: filter, rerank.diversity, rerank.topn)")
}

func BuildPopularityNode(cfg map[string]any) (pipeline.Node, error) {
	return nil, fmt.Errorf("popularity recall binds the catalog snapshot; construct it in code (supported from config: filter, rerank.diversity, rerank.topn)")
}

func BuildTopUpNode(cfg map[string]any) (pipeline.Node, error) {
	return nil, fmt.Errorf("top-up binds a runtime recall source; construct it in code (supported from config: filter, rerank.diversity, rerank.topn)")
}
