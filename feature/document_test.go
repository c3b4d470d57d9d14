package feature

import (
	"reflect"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestAnalyzer_Tokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and punctuation split",
			text: "Dune: Messiah, by F. Herbert!",
			want: []string{"dune", "messiah", "by", "herbert"},
		},
		{
			name: "single-char tokens dropped",
			text: "a I x go",
			want: []string{"go"},
		},
		{
			name: "digits and underscore are word chars",
			text: "cooking_101 2nd edition",
			want: []string{"cooking_101", "2nd", "edition"},
		},
		{
			name: "accents folded",
			text: "Café Déjà",
			want: []string{"cafe", "deja"},
		},
		{
			name: "whitespace collapsed",
			text: "  deep \t space\n\n station ",
			want: []string{"deep", "space", "station"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	a := Analyzer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Tokens(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzer_Terms_Bigrams(t *testing.T) {
	a := Analyzer{Bigrams: true}
	got := a.Terms("deep space station")
	want := []string{"deep", "space", "station", "deep space", "space station"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}

	// A single surviving token yields no bigrams.
	got = a.Terms("deep")
	want = []string{"deep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}

func TestDocument_MissingFields(t *testing.T) {
	b := &core.Book{Title: "Dune", Author: "Herbert"}
	doc := Document(b)
	a := Analyzer{}
	got := a.Tokens(doc)
	want := []string{"dune", "herbert"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens of sparse book = %v, want %v", got, want)
	}
}
