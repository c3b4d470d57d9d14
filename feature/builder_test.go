package feature

import (
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestBuilder_Build(t *testing.T) {
	// "smith" is the only term reaching min_df (2 of 3 docs). Its single
	// text dimension normalizes to 1 for books 1 and 2, and the numeric
	// z-scores come out as ±√1.5 and 0, so:
	// row0 = (1, -√1.5, +√1.5), row1 = (1, +√1.5, -√1.5), norms = 2
	// cos(0,1) = (1 - 1.5 - 1.5) / 4 = -0.5
	books := []core.Book{
		{ID: 1, Title: "Alpha", Author: "Smith", Likes: 10, Rating: 4},
		{ID: 2, Title: "Beta", Author: "Smith", Likes: 30, Rating: 2},
		{ID: 3, Title: "Gamma", Author: "Jones", Likes: 20, Rating: 3},
	}
	b := NewBuilder(DefaultVectorizerConfig())
	set := b.Build(books)

	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	if want := []string{"smith"}; !reflect.DeepEqual(set.Terms, want) {
		t.Fatalf("Terms = %v, want %v", set.Terms, want)
	}
	// text column + likes column + rating column
	if set.Matrix.Cols != 3 {
		t.Fatalf("Cols = %d, want 3", set.Matrix.Cols)
	}
	if got := set.RowOf(2); got != 1 {
		t.Errorf("RowOf(2) = %d, want 1", got)
	}
	if got := set.RowOf(99); got != -1 {
		t.Errorf("RowOf(99) = %d, want -1", got)
	}

	row0 := set.Matrix.Row(0)
	if row0.NNZ() != 3 {
		t.Fatalf("row 0 nnz = %d, want 3", row0.NNZ())
	}
	sqrt15 := math.Sqrt(1.5)
	if !almostEqual(row0.Values[1], -sqrt15) || !almostEqual(row0.Values[2], sqrt15) {
		t.Errorf("row 0 numeric tail = [%v %v], want [-√1.5 +√1.5]", row0.Values[1], row0.Values[2])
	}

	if sim := set.Similarity(0, 1); !almostEqual(sim, -0.5) {
		t.Errorf("Similarity(0,1) = %v, want -0.5", sim)
	}
	// Book 3 sits exactly at both numeric means and shares no text: zero row.
	if sim := set.Similarity(0, 2); sim != 0 {
		t.Errorf("Similarity(0,2) = %v, want 0", sim)
	}
}

func TestBuilder_Build_EmptyCatalog(t *testing.T) {
	set := NewBuilder(DefaultVectorizerConfig()).Build(nil)
	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
	if set.Matrix.Len() != 0 {
		t.Errorf("matrix rows = %d, want 0", set.Matrix.Len())
	}
	if set.RowOf(1) != -1 {
		t.Errorf("RowOf on empty set should be -1")
	}
}

func TestBuilder_Build_SingleBook(t *testing.T) {
	// One book: no term reaches min_df=2 and both numeric columns are
	// constant, so the whole row is zero and self-similarity collapses to 0.
	set := NewBuilder(DefaultVectorizerConfig()).Build([]core.Book{
		{ID: 7, Title: "Solo", Author: "Only", Likes: 5, Rating: 3},
	})
	if set.Len() != 1 {
		t.Fatalf("Len = %d, want 1", set.Len())
	}
	if sim := set.Similarity(0, 0); sim != 0 {
		t.Errorf("Similarity(0,0) = %v, want 0 for a zero row", sim)
	}
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	books := []core.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Description: "desert planet spice", Genres: "Sci-Fi", Likes: 100, Rating: 4.8},
		{ID: 2, Title: "Dune Messiah", Author: "Herbert", Description: "desert planet sequel", Genres: "Sci-Fi", Likes: 10, Rating: 4.0},
		{ID: 3, Title: "Cooking 101", Author: "Chef", Description: "pasta and sauces", Genres: "Cooking", Likes: 5, Rating: 3.0},
	}
	b := NewBuilder(DefaultVectorizerConfig())
	s1 := b.Build(books)
	s2 := b.Build(books)
	if !reflect.DeepEqual(s1.Terms, s2.Terms) {
		t.Fatalf("vocabularies differ across builds")
	}
	for i := range s1.Matrix.Rows {
		if !reflect.DeepEqual(s1.Matrix.Rows[i], s2.Matrix.Rows[i]) {
			t.Fatalf("row %d differs across builds", i)
		}
	}
}
