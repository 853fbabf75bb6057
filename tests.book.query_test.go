package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBooks() []Book {
	return []Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Year: NewYear(1965)},
		{ID: 2, Title: "Children of Dune", Author: "Herbert", Year: NewYear(1976), IsComplete: true},
		{ID: 3, Title: "Neuromancer", Author: "Gibson", Year: NewYear(1984)},
		{ID: 4, Title: "DUNE MESSIAH", Author: "Herbert", Year: NewYear(1969)},
		{ID: 5, Title: "Éléments", Author: "Euclide", Year: Year{}},
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	books := testBooks()
	assert.Equal(t, books, Search(books, ""))
	assert.Empty(t, Search([]Book{}, ""))
}

func TestSearch(t *testing.T) {
	testCases := []struct {
		name string
		term string
		ids  []int64
	}{
		{"lower case term", "dune", []int64{1, 2, 4}},
		{"upper case term", "DUN", []int64{1, 2, 4}},
		{"middle of title", "romance", []int64{3}},
		{"accented title", "élé", []int64{5}},
		{"accented upper term", "ÉLÉ", []int64{5}},
		{"no match", "foundation", []int64{}},
		{"author is not searched", "herbert", []int64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found := Search(testBooks(), tc.term)
			ids := []int64{}
			for _, b := range found {
				assert.Contains(t, strings.ToLower(b.Title), strings.ToLower(tc.term))
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}
