package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nikbrunner/pbb/internal/model"
)

// BookList is one page of the catalog.
type BookList struct {
	Books []model.Book
	Total int
	Size  int
}

// PageList is a book's page descriptors. Total is the page count reported
// by the API, falling back to len(Pages).
type PageList struct {
	Pages []model.Page
	Total int
}

// GlossaryResults is one page of glossary hits.
type GlossaryResults struct {
	Terms []model.GlossaryTerm
	Total int
}

// glossaryRequest is the body of POST /api/v1/glossary/search.
type glossaryRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// bookRecord accepts the id under any of the keys the API has used.
type bookRecord struct {
	model.Book
	AltID  model.BookID `json:"_id"`
	BookID model.BookID `json:"book_id"`
}

func (r bookRecord) toBook() model.Book {
	b := r.Book
	switch {
	case !b.ID.IsZero():
	case !r.AltID.IsZero():
		b.ID = r.AltID
	default:
		b.ID = r.BookID
	}
	return b
}

// pageRecord tolerates numbers sent as strings and labels sent as numbers.
type pageRecord struct {
	Number flexInt    `json:"page_number"`
	Label  flexString `json:"page_label"`
}

// flexInt decodes a JSON number, a numeric string or null.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("page number %q: %w", s, err)
		}
		*n = flexInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

// flexString decodes a JSON string, a number or null.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = flexString(n.String())
	}
	return nil
}
