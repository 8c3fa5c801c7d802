package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BookID identifies a book. The API hands out numeric ids, URLs and older
// exports carry strings, so both decode to the same canonical text.
type BookID string

// BookIDFromInt returns the BookID for a numeric id.
func BookIDFromInt(id int64) BookID {
	return BookID(strconv.FormatInt(id, 10))
}

// String returns the canonical text form.
func (id BookID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id BookID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Equal compares canonical forms.
func (id BookID) Equal(other BookID) bool {
	return strings.TrimSpace(string(id)) == strings.TrimSpace(string(other))
}

// MarshalJSON writes integer ids as JSON numbers and everything else as strings.
func (id BookID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = BookID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	*id = BookID(n.String())
	return nil
}

// Book is a catalog entry. Only ID is guaranteed; titles are optional.
type Book struct {
	ID            BookID `json:"id"`
	OriginalTitle string `json:"original_book_title,omitempty"`
	EnglishTitle  string `json:"english_book_title,omitempty"`
	Title         string `json:"title,omitempty"`
	Name          string `json:"name,omitempty"`
	Author        string `json:"author,omitempty"`
	Summary       string `json:"summary,omitempty"`
}

// DisplayTitle returns the first present title in precedence order:
// original, english, title, name, then a synthesized "Book {id}".
func (b Book) DisplayTitle() string {
	for _, candidate := range []string{b.OriginalTitle, b.EnglishTitle, b.Title, b.Name} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	if b.ID.IsZero() {
		return "Book Unknown"
	}
	return "Book " + b.ID.String()
}
