// bookrec 是一次性推荐查询的命令行入口，输出与 HTTP 接口同构的 JSON。
//
// 用法：
//
//	bookrec -user_id 42
//	bookrec -user_id 42 -count 10 -exclude 7 -config bookrec.yaml
//
// 结果打到标准输出；-v 打开调试日志（走标准错误，不脏输出）。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/config"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/feast"
	"github.com/rushteam/bookrec/pkg/logger"
)

func main() {
	userID := flag.Int64("user_id", 0, "用户 ID")
	count := flag.Int("count", 0, "返回条数（0 取服务默认）")
	excludeID := flag.Int64("exclude", 0, "要剔除的书 ID（如当前浏览页）")
	configPath := flag.String("config", "", "配置文件路径（YAML）")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	// 与老接口保持一致：不带 user_id 输出 error JSON，退出码仍为 0
	if *userID == 0 {
		printJSON(map[string]string{"error": "No user_id provided"})
		return
	}

	log := logger.NewNop()
	if *verbose {
		var err error
		log, err = logger.New("dev")
		if err != nil {
			fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	if cfg.Database.DSN == "" {
		fail(fmt.Errorf("database dsn is required (database.dsn or DATABASE_URL)"))
	}

	pg, err := catalog.NewPostgresRepository(cfg.Database.DSN, log)
	if err != nil {
		fail(err)
	}
	defer pg.Close()

	var repo core.Repository = pg
	if cfg.Feast.Enabled() {
		signals, err := feast.NewSignalService(cfg.Feast.ClientConfig(), log)
		if err != nil {
			log.Warn("feast unavailable, using catalog counters", "error", err)
		} else {
			defer signals.Close(context.Background())
			repo = catalog.WithSignals(repo, signals, log)
		}
	}

	eng, err := engine.New(repo, cfg.Engine.EngineConfig(), log)
	if err != nil {
		fail(err)
	}

	recs, err := eng.Recommend(context.Background(), engine.Request{
		UserID:    *userID,
		Count:     *count,
		ExcludeID: *excludeID,
	})
	if err != nil {
		fail(err)
	}

	printJSON(struct {
		Recommendations []core.Recommendation `json:"recommendations"`
	}{Recommendations: recs})
}

// fail 按接口同款形态输出 error JSON，非零退出。
func fail(err error) {
	msg := err.Error()
	if de := core.GetDomainError(err); de != nil {
		msg = de.Message
	}
	printJSON(map[string]string{"error": msg})
	os.Exit(1)
}

func printJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
