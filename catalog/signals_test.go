package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/bookrec/core"
)

type stubSignals struct {
	signals map[int64]core.BookSignals
	err     error
}

func (s *stubSignals) Name() string { return "stub" }

func (s *stubSignals) BatchGetBookSignals(_ context.Context, _ []int64) (map[int64]core.BookSignals, error) {
	return s.signals, s.err
}

func (s *stubSignals) Close(_ context.Context) error { return nil }

func TestWithSignals_Overlay(t *testing.T) {
	repo := NewMemoryRepository(
		core.Book{ID: 1, Title: "Dune", Author: "Herbert", Likes: 10, Rating: 3.0},
		core.Book{ID: 2, Title: "Cooking 101", Author: "Chef", Likes: 5, Rating: 2.0},
	)
	wrapped := WithSignals(repo, &stubSignals{
		signals: map[int64]core.BookSignals{
			1: {Likes: 100, Dislikes: 3, Rating: 4.8},
		},
	}, nil)

	books, err := wrapped.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if books[0].Likes != 100 || books[0].Dislikes != 3 || books[0].Rating != 4.8 {
		t.Errorf("book 1 = %+v, want overlaid signals 100/3/4.8", books[0])
	}
	// 不在覆盖集里的书保留库内聚合值
	if books[1].Likes != 5 || books[1].Rating != 2.0 {
		t.Errorf("book 2 = %+v, want untouched 5/2.0", books[1])
	}
}

func TestWithSignals_DegradesOnError(t *testing.T) {
	repo := NewMemoryRepository(
		core.Book{ID: 1, Title: "Dune", Author: "Herbert", Likes: 10, Rating: 3.0},
	)
	wrapped := WithSignals(repo, &stubSignals{err: errors.New("feature store down")}, nil)

	books, err := wrapped.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks() must degrade, got error %v", err)
	}
	if books[0].Likes != 10 {
		t.Errorf("book 1 likes = %d, want database value 10", books[0].Likes)
	}
}

func TestWithSignals_NilServicePassthrough(t *testing.T) {
	repo := NewMemoryRepository()
	if got := WithSignals(repo, nil, nil); got != core.Repository(repo) {
		t.Errorf("WithSignals(repo, nil) must return repo unchanged")
	}
}
