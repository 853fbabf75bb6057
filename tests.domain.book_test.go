package main

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	testCases := []struct {
		raw   string
		valid bool
		value int
	}{
		{"1965", true, 1965},
		{"  1965", true, 1965},
		{"1965abc", true, 1965},
		{"-44", true, -44},
		{"+2001", true, 2001},
		{"0", true, 0},
		{"", false, 0},
		{"abc", false, 0},
		{"abc1965", false, 0},
		{"-", false, 0},
		{"0x1A", true, 26},
		{"-0X1a", true, -26},
		{"0x1G", true, 1},
		{"0x", false, 0},
		{"0xZ", false, 0},
		{"0755", true, 755},
		{"99999999999999999999", true, math.MaxInt},
		{"-99999999999999999999", true, math.MinInt},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			y := ParseYear(tc.raw)
			assert.Equal(t, tc.valid, y.Valid)
			assert.Equal(t, tc.value, y.Value)
		})
	}
}

func TestYearString(t *testing.T) {
	assert.Equal(t, "1965", NewYear(1965).String())
	assert.Equal(t, "NaN", Year{}.String())
}

// TestBookJSON ensures the stored layout uses the expected field names
// and that an unreadable year is kept as null.
func TestBookJSON(t *testing.T) {
	b := Book{ID: 1700000000000, Title: "Dune", Author: "Herbert", Year: NewYear(1965)}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1700000000000,"title":"Dune","author":"Herbert","year":1965,"isComplete":false}`, string(data))

	b.Year = ParseYear("soon")
	data, err = json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1700000000000,"title":"Dune","author":"Herbert","year":null,"isComplete":false}`, string(data))

	var decoded Book
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBookInputYear(t *testing.T) {
	var in BookInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","year":1965}`), &in))
	assert.Equal(t, FormValue("1965"), in.Year)

	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","year":"1965abc"}`), &in))
	assert.Equal(t, FormValue("1965abc"), in.Year)

	in = BookInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","year":null}`), &in))
	assert.Equal(t, FormValue(""), in.Year)
}

func TestDraftFromBook(t *testing.T) {
	d := DraftFromBook(Book{ID: 1, Title: "Dune", Author: "Herbert", Year: NewYear(1965), IsComplete: true})
	assert.Equal(t, BookDraft{Title: "Dune", Author: "Herbert", Year: "1965", IsComplete: true}, d)

	d = DraftFromBook(Book{ID: 2, Title: "Untitled"})
	assert.Equal(t, "", d.Year)
}
