// Package catalog groups the book list into alphabet tabs.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/resolver"
)

// Catalog maps a tab key ("A".."Z" or "#") to its books.
type Catalog map[string][]model.Book

// Group places every book under the tab of its display title's first
// letter. Books inside a tab are sorted by collated display title.
func Group(books []model.Book) Catalog {
	c := make(Catalog)
	for _, b := range books {
		key := resolver.GroupKey(b.DisplayTitle())
		c[key] = append(c[key], b)
	}

	col := collate.New(language.English)
	for key := range c {
		list := c[key]
		sort.SliceStable(list, func(i, j int) bool {
			return col.CompareString(list[i].DisplayTitle(), list[j].DisplayTitle()) < 0
		})
	}
	return c
}

// Tabs returns the populated tab keys, letters first and "#" last.
func (c Catalog) Tabs() []string {
	tabs := make([]string, 0, len(c))
	for key, books := range c {
		if len(books) > 0 {
			tabs = append(tabs, key)
		}
	}
	sort.Slice(tabs, func(i, j int) bool {
		if tabs[i] == resolver.OtherGroup {
			return false
		}
		if tabs[j] == resolver.OtherGroup {
			return true
		}
		return tabs[i] < tabs[j]
	})
	return tabs
}

// Books returns the books of one tab.
func (c Catalog) Books(tab string) []model.Book {
	return c[tab]
}

// Len returns the number of books across all tabs.
func (c Catalog) Len() int {
	n := 0
	for _, books := range c {
		n += len(books)
	}
	return n
}

// Filter returns books from every tab whose display title contains query,
// case-insensitively, in tab order. A blank query returns nil.
func (c Catalog) Filter(query string) []model.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []model.Book
	for _, tab := range c.Tabs() {
		for _, b := range c[tab] {
			if strings.Contains(strings.ToLower(b.DisplayTitle()), q) {
				out = append(out, b)
			}
		}
	}
	return out
}
