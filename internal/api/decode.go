package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikbrunner/pbb/internal/model"
)

// ErrUnexpectedShape is returned when a response matches none of the
// envelopes the API is known to use.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// unwrapList returns the JSON array in raw, either raw itself or the
// first of keys holding an array. The decoded envelope is returned too
// (nil for a bare array). null decodes as an empty array.
func unwrapList(raw []byte, keys ...string) (json.RawMessage, map[string]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return json.RawMessage("[]"), nil, nil
	case raw[0] == '[':
		return raw, nil, nil
	case raw[0] != '{':
		return nil, nil, fmt.Errorf("%w: want array or object", ErrUnexpectedShape)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	for _, key := range keys {
		v, ok := envelope[key]
		if !ok {
			continue
		}
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '[' {
			return v, envelope, nil
		}
	}
	return nil, envelope, fmt.Errorf("%w: no list under %v", ErrUnexpectedShape, keys)
}

// envelopeInt returns the first of keys holding a positive integer.
func envelopeInt(envelope map[string]json.RawMessage, keys ...string) int {
	for _, key := range keys {
		v, ok := envelope[key]
		if !ok {
			continue
		}
		var n flexInt
		if err := json.Unmarshal(v, &n); err == nil && n > 0 {
			return int(n)
		}
	}
	return 0
}

// DecodeBooks normalizes a catalog response: a bare array, or an object
// with the list under "books" or "data".
func DecodeBooks(raw []byte) (*BookList, error) {
	list, envelope, err := unwrapList(raw, "books", "data")
	if err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	var records []bookRecord
	if err := json.Unmarshal(list, &records); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	books := make([]model.Book, 0, len(records))
	for _, r := range records {
		books = append(books, r.toBook())
	}

	result := &BookList{
		Books: books,
		Total: envelopeInt(envelope, "total", "count"),
		Size:  envelopeInt(envelope, "size"),
	}
	if result.Total == 0 {
		result.Total = len(books)
	}
	return result, nil
}

// DecodePages normalizes a page list response: a bare array, or an object
// with the list under "page_maps", "pages" or "data".
func DecodePages(raw []byte) (*PageList, error) {
	list, envelope, err := unwrapList(raw, "page_maps", "pages", "data")
	if err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}

	var records []pageRecord
	if err := json.Unmarshal(list, &records); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}

	pages := make([]model.Page, 0, len(records))
	for _, r := range records {
		pages = append(pages, model.Page{Number: int(r.Number), Label: string(r.Label)})
	}

	total := envelopeInt(envelope, "total")
	if total == 0 {
		total = len(pages)
	}
	return &PageList{Pages: pages, Total: total}, nil
}

// DecodeTOC normalizes a TOC response: a bare array or an object with the
// list under "table_of_contents".
func DecodeTOC(raw []byte) ([]model.TOCEntry, error) {
	list, _, err := unwrapList(raw, "table_of_contents", "toc", "data")
	if err != nil {
		return nil, fmt.Errorf("decode toc: %w", err)
	}

	entries := []model.TOCEntry{}
	if err := json.Unmarshal(list, &entries); err != nil {
		return nil, fmt.Errorf("decode toc: %w", err)
	}
	return entries, nil
}

// DecodeContent extracts the page text from any of:
//
//	"text"
//	{"content": {"ai_page_content": "text"}}
//	{"ai_page_content": "text"}
//	{"content": "text"}
//
// A body that isn't JSON is returned as is.
func DecodeContent(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if !json.Valid(raw) {
		return string(raw), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var envelope struct {
		Content       json.RawMessage `json:"content"`
		AIPageContent *string         `json:"ai_page_content"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode content: %w: %v", ErrUnexpectedShape, err)
	}

	if len(envelope.Content) > 0 {
		var nested struct {
			AIPageContent *string `json:"ai_page_content"`
		}
		if err := json.Unmarshal(envelope.Content, &nested); err == nil && nested.AIPageContent != nil {
			return *nested.AIPageContent, nil
		}
	}
	if envelope.AIPageContent != nil {
		return *envelope.AIPageContent, nil
	}
	if len(envelope.Content) > 0 {
		if err := json.Unmarshal(envelope.Content, &text); err == nil {
			return text, nil
		}
	}
	return "", nil
}

// DecodeGlossary normalizes a glossary search response: a bare array, or
// an object with the list under "glossary_terms", "results", "data" or
// "glossary", and the hit count under "total" or "count".
func DecodeGlossary(raw []byte) (*GlossaryResults, error) {
	list, envelope, err := unwrapList(raw, "glossary_terms", "results", "data", "glossary")
	if err != nil {
		return nil, fmt.Errorf("decode glossary: %w", err)
	}

	terms := []model.GlossaryTerm{}
	if err := json.Unmarshal(list, &terms); err != nil {
		return nil, fmt.Errorf("decode glossary: %w", err)
	}

	total := envelopeInt(envelope, "total", "count")
	if total == 0 {
		total = len(terms)
	}
	return &GlossaryResults{Terms: terms, Total: total}, nil
}
