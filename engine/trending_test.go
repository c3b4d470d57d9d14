package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/store"
)

func TestTrending_ComputesWithoutStore(t *testing.T) {
	repo := catalog.NewMemoryRepository(sciFiCatalog()...)
	tr := NewTrending(repo, nil, TrendingConfig{}, nil)

	recs, err := tr.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if want := []int64{1, 2}; !reflect.DeepEqual(recIDs(recs), want) {
		t.Fatalf("Top() = %v, want %v", recIDs(recs), want)
	}
	if recs[0].Score != 328 || recs[1].Score != 28 {
		t.Errorf("scores = %v/%v, want 328/28", recs[0].Score, recs[1].Score)
	}
}

func TestTrending_ServesFromCacheAfterRefresh(t *testing.T) {
	repo := catalog.NewMemoryRepository(sciFiCatalog()...)
	kv := store.NewMemoryStore()
	defer kv.Close()
	tr := NewTrending(repo, kv, TrendingConfig{}, nil)

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// 清空目录：之后的 Top 只能来自缓存
	repo.SetBooks(nil)

	recs, err := tr.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if want := []int64{1, 2}; !reflect.DeepEqual(recIDs(recs), want) {
		t.Errorf("Top() from cache = %v, want %v", recIDs(recs), want)
	}
	if recs[0].Title != "Dune" {
		t.Errorf("cached metadata lost title: %+v", recs[0])
	}
}

func TestTrending_ColdCacheFallsBackToCatalog(t *testing.T) {
	repo := catalog.NewMemoryRepository(sciFiCatalog()...)
	kv := store.NewMemoryStore()
	defer kv.Close()
	tr := NewTrending(repo, kv, TrendingConfig{}, nil)

	// 没刷新过，zset 为空，必须现算
	recs, err := tr.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(recIDs(recs), want) {
		t.Errorf("Top() = %v, want %v", recIDs(recs), want)
	}
}

func TestTrending_RefreshTracksCatalog(t *testing.T) {
	repo := catalog.NewMemoryRepository(sciFiCatalog()...)
	kv := store.NewMemoryStore()
	defer kv.Close()
	tr := NewTrending(repo, kv, TrendingConfig{}, nil)

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// 烹饪书爆火，重刷后榜首换人
	repo.SetBooks([]core.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Likes: 100, Rating: 4.8},
		{ID: 2, Title: "Dune Messiah", Author: "Herbert", Likes: 10, Rating: 4.0},
		{ID: 3, Title: "Cooking 101", Author: "Chef", Likes: 9000, Rating: 4.9},
	})
	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	recs, err := tr.Top(context.Background(), 1)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(recs) != 1 || recs[0].BookID != 3 {
		t.Errorf("Top(1) = %v, want [3]", recIDs(recs))
	}
}

func TestTrending_DefaultCount(t *testing.T) {
	books := make([]core.Book, 0, 15)
	for i := int64(1); i <= 15; i++ {
		books = append(books, core.Book{
			ID: i, Title: "Book", Author: "A", Likes: 100 - i, Rating: 4,
		})
	}
	repo := catalog.NewMemoryRepository(books...)
	tr := NewTrending(repo, nil, TrendingConfig{}, nil)

	recs, err := tr.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(recs) != 10 {
		t.Errorf("Top(0) returned %d, want default 10", len(recs))
	}
}
