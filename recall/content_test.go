package recall

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/feature"
)

func buildSet(books []core.Book) *feature.Set {
	return feature.NewBuilder(feature.DefaultVectorizerConfig()).Build(core.SanitizeBooks(books))
}

func sciFiCatalog() []core.Book {
	return []core.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Likes: 100, Rating: 4.8},
		{ID: 2, Title: "Dune Messiah", Author: "Herbert", Likes: 10, Rating: 4.0},
		{ID: 3, Title: "Cooking 101", Author: "Chef", Likes: 5, Rating: 3.0},
	}
}

func profileOf(liked, disliked []int64) *core.UserProfile {
	activity := core.UserActivity{}
	for _, id := range liked {
		activity.Actions = append(activity.Actions, core.ActivityRecord{BookID: id, Kind: core.ActionLike})
	}
	for _, id := range disliked {
		activity.Actions = append(activity.Actions, core.ActivityRecord{BookID: id, Kind: core.ActionDislike})
	}
	return core.NewUserProfile(42, activity)
}

func recallIDs(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestContentSource_RanksSharedTextAboveUnrelated(t *testing.T) {
	// Liked "Dune": the sequel shares title and author terms, the cookbook
	// shares nothing and sits on the far side of the numeric columns.
	src := &ContentSource{
		Set:           buildSet(sciFiCatalog()),
		PenaltyWeight: 0.3,
	}
	rctx := &core.RecommendContext{
		UserID: 42,
		Count:  2,
		User:   profileOf([]int64{1}, nil),
	}

	got, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if want := []int64{2, 3}; !reflect.DeepEqual(recallIDs(got), want) {
		t.Fatalf("Recall() = %v, want %v", recallIDs(got), want)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}
	// the liked book itself must never surface
	for _, it := range got {
		if it.ID == 1 {
			t.Errorf("liked book leaked into candidates")
		}
	}
	if lbl := got[0].Labels["recall_source"]; lbl.Value != "content" {
		t.Errorf("recall_source label = %q, want content", lbl.Value)
	}
}

func TestContentSource_RequiresPositiveSignal(t *testing.T) {
	set := buildSet(sciFiCatalog())
	tests := []struct {
		name string
		user *core.UserProfile
	}{
		{"nil profile", nil},
		{"dislike only", profileOf(nil, []int64{2})},
		{"liked ids not in catalog", profileOf([]int64{77, 88}, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &ContentSource{Set: set, PenaltyWeight: 0.3}
			rctx := &core.RecommendContext{UserID: 42, Count: 5, User: tt.user}
			got, err := src.Recall(context.Background(), rctx)
			if err != nil {
				t.Fatalf("Recall() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Recall() = %v, want empty (fallback owns this case)", recallIDs(got))
			}
		})
	}
}

func TestContentSource_PenaltyLowersSimilarCandidates(t *testing.T) {
	// Book 4 is textually close to book 2. Disliking book 2 must strictly
	// lower book 4's score versus the dislike-free run, and the penalty is
	// applied exactly once.
	books := []core.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Genres: "Sci-Fi", Likes: 100, Rating: 4.8},
		{ID: 2, Title: "Dune Messiah", Author: "Herbert", Genres: "Sci-Fi", Likes: 10, Rating: 4.0},
		{ID: 3, Title: "Cooking 101", Author: "Chef", Genres: "Cooking", Likes: 5, Rating: 3.0},
		{ID: 4, Title: "Dune Messiah Annotated", Author: "Herbert", Genres: "Sci-Fi", Likes: 8, Rating: 3.9},
	}
	set := buildSet(books)

	scoresFor := func(user *core.UserProfile) map[int64]float64 {
		src := &ContentSource{Set: set, PenaltyWeight: 0.3, TopK: 10}
		rctx := &core.RecommendContext{UserID: 42, Count: 4, User: user}
		items, err := src.Recall(context.Background(), rctx)
		if err != nil {
			t.Fatalf("Recall() error = %v", err)
		}
		out := make(map[int64]float64, len(items))
		for _, it := range items {
			out[it.ID] = it.Score
		}
		return out
	}

	baseline := scoresFor(profileOf([]int64{1}, nil))
	penalized := scoresFor(profileOf([]int64{1}, []int64{2}))

	base4, ok := baseline[4]
	if !ok {
		t.Fatalf("book 4 missing from baseline run: %v", baseline)
	}
	pen4, ok := penalized[4]
	if !ok {
		t.Fatalf("book 4 missing from penalized run: %v", penalized)
	}
	if pen4 >= base4 {
		t.Errorf("dislike of a similar book must lower the score: baseline %v, penalized %v", base4, pen4)
	}

	// exactly once: score = likedAff − 0.3 × dislikedAff
	dislikedAff := meanSimilarity(set, set.RowOf(4), []int{set.RowOf(2)})
	if want := base4 - 0.3*dislikedAff; !almostEqualF(pen4, want) {
		t.Errorf("penalized score = %v, want %v (single application of the penalty)", pen4, want)
	}
}

func TestContentSource_TopKHeadroom(t *testing.T) {
	books := make([]core.Book, 0, 12)
	titles := []string{
		"Dune One", "Dune Two", "Dune Three", "Dune Four", "Dune Five",
		"Dune Six", "Dune Seven", "Dune Eight", "Dune Nine", "Dune Ten",
		"Dune Eleven", "Dune Twelve",
	}
	for i, title := range titles {
		books = append(books, core.Book{
			ID: int64(i + 1), Title: title, Author: "Herbert", Likes: int64(10 + i), Rating: 4,
		})
	}
	src := &ContentSource{Set: buildSet(books), PenaltyWeight: 0.3}
	rctx := &core.RecommendContext{UserID: 42, Count: 3, User: profileOf([]int64{1}, nil)}

	got, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// default cap is 2×count, giving the diversity stage headroom
	if len(got) != 6 {
		t.Errorf("len = %d, want 6 (2× requested count)", len(got))
	}
}

func TestContentSource_Deterministic(t *testing.T) {
	src := &ContentSource{Set: buildSet(sciFiCatalog()), PenaltyWeight: 0.3}
	rctx := &core.RecommendContext{UserID: 42, Count: 3, User: profileOf([]int64{1}, []int64{3})}

	first, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := src.Recall(context.Background(), rctx)
		if err != nil {
			t.Fatalf("Recall() error = %v", err)
		}
		if !reflect.DeepEqual(recallIDs(first), recallIDs(again)) {
			t.Fatalf("order changed across runs: %v vs %v", recallIDs(first), recallIDs(again))
		}
		for i := range first {
			if first[i].Score != again[i].Score {
				t.Fatalf("score drifted at position %d: %v vs %v", i, first[i].Score, again[i].Score)
			}
		}
	}
}

func almostEqualF(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
