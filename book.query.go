package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Search returns the books whose title contains term, ignoring case. The
// input order is kept. An empty term matches every book.
func Search(books []Book, term string) []Book {
	if term == "" {
		return books
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(term)
	found := []Book{}
	for _, b := range books {
		if strings.Contains(lower.String(b.Title), needle) {
			found = append(found, b)
		}
	}
	return found
}
