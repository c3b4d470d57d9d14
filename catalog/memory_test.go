package catalog

import (
	"context"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestMemoryRepository_ListBooks_FiltersIncompleteRows(t *testing.T) {
	repo := NewMemoryRepository(
		core.Book{ID: 1, Title: "Dune", Author: "Herbert"},
		core.Book{ID: 2, Title: "", Author: "Ghost"},
		core.Book{ID: 3, Title: "Untitled Draft", Author: ""},
		core.Book{ID: 4, Title: "Cooking 101", Author: "Chef"},
	)

	books, err := repo.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("ListBooks() returned %d books, want 2", len(books))
	}
	if books[0].ID != 1 || books[1].ID != 4 {
		t.Errorf("ListBooks() ids = [%d %d], want [1 4]", books[0].ID, books[1].ID)
	}

	// 返回的是拷贝，调用方改动不回写目录
	books[0].Title = "mutated"
	again, _ := repo.ListBooks(context.Background())
	if again[0].Title != "Dune" {
		t.Errorf("catalog mutated through returned slice")
	}
}

func TestMemoryRepository_GetUserActivity(t *testing.T) {
	repo := NewMemoryRepository(core.Book{ID: 1, Title: "Dune", Author: "Herbert"})
	repo.RecordAction(core.ActivityRecord{UserID: 7, BookID: 1, Kind: core.ActionLike})
	repo.RecordAction(core.ActivityRecord{UserID: 7, BookID: 2, Kind: core.ActionDislike})
	repo.RecordAction(core.ActivityRecord{UserID: 7, BookID: 3, Kind: core.ActionRating, Value: 4.5})
	repo.SetPreferences(7, core.Preferences{Genres: "Sci-Fi,Fantasy"})

	activity, err := repo.GetUserActivity(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUserActivity() error = %v", err)
	}
	if len(activity.Actions) != 2 {
		t.Errorf("Actions = %d records, want 2", len(activity.Actions))
	}
	if len(activity.Ratings) != 1 || activity.Ratings[0].Value != 4.5 {
		t.Errorf("Ratings = %+v, want one record with value 4.5", activity.Ratings)
	}
	if activity.Preferences == nil || activity.Preferences.Genres != "Sci-Fi,Fantasy" {
		t.Errorf("Preferences = %+v, want genres Sci-Fi,Fantasy", activity.Preferences)
	}
}

func TestMemoryRepository_UnknownUserIsColdStart(t *testing.T) {
	repo := NewMemoryRepository()
	activity, err := repo.GetUserActivity(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetUserActivity() error = %v, want nil for unknown user", err)
	}
	if !activity.Empty() {
		t.Errorf("unknown user activity = %+v, want empty snapshot", activity)
	}
}
