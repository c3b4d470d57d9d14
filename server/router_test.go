package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededRepo() *catalog.MemoryRepository {
	return catalog.NewMemoryRepository(
		core.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Description: "Desert planet spice empire", Genres: "Sci-Fi", Likes: 100, Rating: 4.8},
		core.Book{ID: 2, Title: "Dune Messiah", Author: "Frank Herbert", Description: "Desert planet spice prophecy", Genres: "Sci-Fi", Likes: 10, Rating: 4.0},
		core.Book{ID: 3, Title: "Cooking 101", Author: "Jane Chef", Description: "Simple weeknight recipes", Genres: "Cooking", Likes: 5, Rating: 3.0},
	)
}

func newTestRouter(t *testing.T, repo core.Repository, store core.KeyValueStore) *gin.Engine {
	t.Helper()
	eng, err := engine.New(repo, engine.Config{}, nil)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	trending := engine.NewTrending(repo, store, engine.TrendingConfig{}, nil)
	return NewRouter(RouterConfig{
		Engine:   eng,
		Trending: trending,
		Repo:     repo,
	})
}

func doGet(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type recommendationsPayload struct {
	Recommendations []core.Recommendation `json:"recommendations"`
}

func TestRecommendations(t *testing.T) {
	repo := seededRepo()
	repo.RecordAction(core.ActivityRecord{UserID: 42, BookID: 1, Kind: core.ActionLike})
	router := newTestRouter(t, repo, nil)

	w := doGet(t, router, "/api/recommendations?user_id=42")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际得到 %d，body=%s", w.Code, w.Body.String())
	}

	var payload recommendationsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(payload.Recommendations) == 0 {
		t.Fatal("有相似候选时不应返回空列表")
	}
	for _, rec := range payload.Recommendations {
		if rec.BookID == 1 {
			t.Error("交互过的书不应出现在结果里")
		}
		if rec.Title == "" || rec.Source == "" {
			t.Errorf("出参字段不完整: %+v", rec)
		}
	}
}

func TestRecommendationsValidation(t *testing.T) {
	router := newTestRouter(t, seededRepo(), nil)

	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing user_id", "/api/recommendations", "user_id is required"},
		{"non-numeric user_id", "/api/recommendations?user_id=abc", "positive integer"},
		{"zero user_id", "/api/recommendations?user_id=0", "positive integer"},
		{"negative user_id", "/api/recommendations?user_id=-5", "positive integer"},
		{"non-numeric count", "/api/recommendations?user_id=42&count=many", "count must be an integer"},
		{"non-numeric exclude", "/api/recommendations?user_id=42&exclude=x", "exclude must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(t, router, tt.target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("期望 400，实际得到 %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantMsg) {
				t.Errorf("期望报错包含 %q，实际 body=%s", tt.wantMsg, w.Body.String())
			}
		})
	}
}

func TestRecommendationsEmptyCatalog(t *testing.T) {
	router := newTestRouter(t, catalog.NewMemoryRepository(), nil)

	w := doGet(t, router, "/api/recommendations?user_id=42")
	if w.Code != http.StatusOK {
		t.Fatalf("空目录应返回 200，实际得到 %d", w.Code)
	}
	var payload recommendationsPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if payload.Recommendations == nil {
		t.Error("空目录应返回空数组而非 null")
	}
	if len(payload.Recommendations) != 0 {
		t.Errorf("空目录不应有结果: %+v", payload.Recommendations)
	}
}

// unavailableRepo 模拟目录库宕机。
type unavailableRepo struct{}

func (unavailableRepo) ListBooks(context.Context) ([]core.Book, error) {
	return nil, core.ErrRepositoryUnavailable.WithCause(errors.New("connection refused"))
}

func (unavailableRepo) GetUserActivity(context.Context, int64) (core.UserActivity, error) {
	return core.UserActivity{}, core.ErrRepositoryUnavailable.WithCause(errors.New("connection refused"))
}

func (unavailableRepo) Ping(context.Context) error {
	return core.ErrRepositoryUnavailable.WithCause(errors.New("connection refused"))
}

func (unavailableRepo) Close() error { return nil }

func TestRecommendationsUnavailable(t *testing.T) {
	router := newTestRouter(t, unavailableRepo{}, nil)

	w := doGet(t, router, "/api/recommendations?user_id=42")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("目录库不可达应返回 503，实际得到 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unavailable") {
		t.Errorf("期望不可用文案，实际 body=%s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("底层原因不应出现在出参里: %s", w.Body.String())
	}
}

func TestTrending(t *testing.T) {
	router := newTestRouter(t, seededRepo(), nil)

	w := doGet(t, router, "/api/trending?count=2")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际得到 %d，body=%s", w.Code, w.Body.String())
	}

	var payload struct {
		Trending []core.Recommendation `json:"trending"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(payload.Trending) != 2 {
		t.Fatalf("期望 2 条，实际得到 %d", len(payload.Trending))
	}
	if payload.Trending[0].BookID != 1 || payload.Trending[1].BookID != 2 {
		t.Errorf("榜单应按热门度排序: %+v", payload.Trending)
	}

	if w := doGet(t, router, "/api/trending?count=zero"); w.Code != http.StatusBadRequest {
		t.Errorf("非数字 count 应返回 400，实际得到 %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, seededRepo(), nil)
	if w := doGet(t, router, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("健康时应返回 200，实际得到 %d", w.Code)
	}

	router = newTestRouter(t, unavailableRepo{}, nil)
	if w := doGet(t, router, "/healthz"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("目录库不可达应返回 503，实际得到 %d", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, seededRepo(), nil)

	w := doGet(t, router, "/healthz")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("响应应携带请求标识头")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-fixed-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "req-fixed-123" {
		t.Errorf("调用方带来的请求标识应透传，实际得到 %q", got)
	}
}
