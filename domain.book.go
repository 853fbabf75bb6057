package main

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Book represents a reading-list record.
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       Year   `json:"year"`
	IsComplete bool   `json:"isComplete"`
}

// Year is the publication year of a book. An unparsable input is kept
// as an invalid year instead of being rejected. It serializes to null.
type Year struct {
	Value int
	Valid bool
}

// NewYear returns a valid year.
func NewYear(v int) Year {
	return Year{Value: v, Valid: true}
}

// ParseYear reads the leading integer of a raw form value. Leading spaces
// and an optional sign are accepted and anything after the digits is ignored,
// so "1965abc" gives 1965. A "0x" prefix switches to hexadecimal digits.
// Values out of the int range are clamped to it. Without digits the
// returned year is invalid.
func ParseYear(raw string) Year {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	base, isDigit := 10, isDecimalDigit
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit, s = 16, isHexDigit, s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return Year{}
	}
	v, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Year{}
	}
	return NewYear(int(v))
}

func isDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// String returns the decimal year or "NaN" when invalid.
func (y Year) String() string {
	if !y.Valid {
		return "NaN"
	}
	return strconv.Itoa(y.Value)
}

// MarshalJSON implements json.Marshaler.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(y.Value), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = Year{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*y = NewYear(v)
	return nil
}

// FormValue is a raw form field which accepts a JSON string or a bare
// JSON literal such as a number. Its content is kept verbatim.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FormValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FormValue(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = FormValue(data)
	return nil
}

// BookInput holds the raw values submitted through the book form.
type BookInput struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Year       FormValue `json:"year"`
	IsComplete bool      `json:"isComplete"`
}

// BookDraft holds the values used to prefill the book form after an edit.
type BookDraft struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       string `json:"year"`
	IsComplete bool   `json:"isComplete"`
}

// DraftFromBook copies the fields of a book into a form draft.
func DraftFromBook(b Book) BookDraft {
	d := BookDraft{Title: b.Title, Author: b.Author, IsComplete: b.IsComplete}
	if b.Year.Valid {
		d.Year = strconv.Itoa(b.Year.Value)
	}
	return d
}
