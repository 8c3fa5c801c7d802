package bookmark_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC)
}

func sampleBookmarks() []model.Bookmark {
	return []model.Bookmark{
		{ID: "1", BookTitle: "Śrī Gīta-govinda", PageNumber: 30, CreatedAt: day(2)},
		{ID: "2", BookTitle: "Jaiva-dharma", PageNumber: 12, CustomName: "Nāma-tattva", CreatedAt: day(5)},
		{ID: "3", BookTitle: "Jaiva-dharma", PageNumber: 3, CreatedAt: day(1)},
		{ID: "4", BookTitle: "Bhakti-rasāmṛta-sindhu", PageNumber: 120, CreatedAt: day(3)},
	}
}

func ids(list []model.Bookmark) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", []string{"1", "2", "3", "4"}},
		{"whitespace query keeps all", "   ", []string{"1", "2", "3", "4"}},
		{"title case-insensitive", "JAIVA", []string{"2", "3"}},
		{"custom name", "tattva", []string{"2"}},
		{"page number", "12", []string{"2", "4"}},
		{"diacritics must match exactly", "gita", nil},
		{"no match", "upaniṣad", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bookmark.Filter(sampleBookmarks(), tt.query)
			if tt.want == nil {
				assert.Check(t, is.Len(got, 0))
				return
			}
			assert.DeepEqual(t, ids(got), tt.want)
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		order bookmark.SortOrder
		want  []string
	}{
		{bookmark.SortNewest, []string{"2", "4", "1", "3"}},
		{bookmark.SortOldest, []string{"3", "1", "4", "2"}},
		{bookmark.SortByBook, []string{"4", "3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			list := sampleBookmarks()
			got := bookmark.Sort(list, tt.order)
			assert.DeepEqual(t, ids(got), tt.want)
			assert.DeepEqual(t, ids(list), []string{"1", "2", "3", "4"})
		})
	}
}

func TestSort_ByBookUsesCollation(t *testing.T) {
	list := []model.Bookmark{
		{ID: "z", BookTitle: "Zebra", PageNumber: 1},
		{ID: "a", BookTitle: "ānanda", PageNumber: 1},
		{ID: "b", BookTitle: "Bhajana", PageNumber: 1},
	}

	got := bookmark.Sort(list, bookmark.SortByBook)
	assert.DeepEqual(t, ids(got), []string{"a", "b", "z"})
}

func TestSort_Nil(t *testing.T) {
	got := bookmark.Sort(nil, bookmark.SortNewest)
	assert.Assert(t, got != nil)
	assert.Check(t, is.Len(got, 0))
}

func TestSortOrder_NextAndParse(t *testing.T) {
	assert.Equal(t, bookmark.SortNewest.Next(), bookmark.SortOldest)
	assert.Equal(t, bookmark.SortOldest.Next(), bookmark.SortByBook)
	assert.Equal(t, bookmark.SortByBook.Next(), bookmark.SortNewest)

	for _, s := range []string{"newest", "oldest", "book"} {
		order, ok := bookmark.ParseSortOrder(s)
		assert.Assert(t, ok)
		assert.Equal(t, order.String(), s)
	}
	_, ok := bookmark.ParseSortOrder("random")
	assert.Check(t, !ok)
}
