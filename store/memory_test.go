package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want store not-found", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v, want v, nil", got, err)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want store not-found", err)
	}
}

func TestMemoryStore_ZRangeOrdering(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	// 328 > 28 > 11；两个 0 分成员按字典序
	for member, score := range map[string]float64{
		"1": 328, "2": 28, "3": 11, "a": 0, "b": 0,
	} {
		if err := ms.ZAdd(ctx, "rank", score, member); err != nil {
			t.Fatalf("ZAdd() error = %v", err)
		}
	}

	got, err := ms.ZRange(ctx, "rank", 0, -1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if want := []string{"1", "2", "3", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZRange() = %v, want %v", got, want)
	}

	top2, err := ms.ZRange(ctx, "rank", 0, 1)
	if err != nil {
		t.Fatalf("ZRange() error = %v", err)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(top2, want) {
		t.Errorf("ZRange(0,1) = %v, want %v", top2, want)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "meta", "1", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	got, err := ms.HGet(ctx, "meta", "1")
	if err != nil || string(got) != `{"id":1}` {
		t.Errorf("HGet() = %q, %v", got, err)
	}
	if _, err := ms.HGet(ctx, "meta", "404"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(missing field) error = %v, want store not-found", err)
	}

	all, err := ms.HGetAll(ctx, "meta")
	if err != nil || len(all) != 1 {
		t.Errorf("HGetAll() = %v, %v, want one field", all, err)
	}

	// Delete 同时清掉同名的 hash 与 zset
	if err := ms.Delete(ctx, "meta"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ms.HGet(ctx, "meta", "1"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet after Delete error = %v, want store not-found", err)
	}
}
