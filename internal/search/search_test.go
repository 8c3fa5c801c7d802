package search

import (
	"testing"

	"github.com/nikbrunner/pbb/internal/model"
)

func sampleBookmarks() []model.Bookmark {
	return []model.Bookmark{
		{ID: "b1", BookID: "1", BookTitle: "Jaiva-dharma", PageNumber: 12},
		{ID: "b2", BookID: "2", BookTitle: "Bhakti-rasāmṛta-sindhu", PageNumber: 40, CustomName: "Sādhana bhakti"},
		{ID: "b3", BookID: "3", BookTitle: "Śrī Gīta-govinda", PageNumber: 3},
	}
}

func TestBookmarks_EmptyQuery(t *testing.T) {
	results := Bookmarks(sampleBookmarks(), "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestBookmarks_ExactMatch(t *testing.T) {
	results := Bookmarks(sampleBookmarks(), "Jaiva-dharma")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected b1, got %s", results[0].Bookmark.ID)
	}
	if results[0].Text != "Jaiva-dharma · p. 12" {
		t.Errorf("unexpected match text %q", results[0].Text)
	}
}

func TestBookmarks_FuzzyMatch(t *testing.T) {
	// "jvdh" should fuzzy match "Jaiva-dharma"
	results := Bookmarks(sampleBookmarks(), "jvdh")

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'jvdh', got %d", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected b1 as first result, got %s", results[0].Bookmark.ID)
	}
}

func TestBookmarks_MatchesBookTitleBehindCustomName(t *testing.T) {
	results := Bookmarks(sampleBookmarks(), "rasamrta")
	if len(results) != 0 {
		t.Fatalf("diacritics are not folded, expected no match, got %d", len(results))
	}

	results = Bookmarks(sampleBookmarks(), "bhakti-ras")
	if len(results) != 1 || results[0].Bookmark.ID != "b2" {
		t.Fatalf("expected b2 via its book title, got %+v", results)
	}
}

func TestBookmarks_MatchedIndexes(t *testing.T) {
	results := Bookmarks(sampleBookmarks(), "Jai")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := []int{0, 1, 2}
	got := results[0].MatchedIndexes
	if len(got) != len(want) {
		t.Fatalf("expected indexes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected indexes %v, got %v", want, got)
			break
		}
	}
}

func TestBookmarks_PointsIntoInput(t *testing.T) {
	list := sampleBookmarks()
	results := Bookmarks(list, "Jaiva")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark != &list[0] {
		t.Error("expected result to point at the input slice element")
	}
}

func TestText(t *testing.T) {
	list := sampleBookmarks()

	if got := Text(&list[0]); got != "Jaiva-dharma · p. 12" {
		t.Errorf("unexpected text %q", got)
	}
	if got := Text(&list[1]); got != "Sādhana bhakti (Bhakti-rasāmṛta-sindhu · p. 40)" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestBooks(t *testing.T) {
	books := []model.Book{
		{ID: "1", OriginalTitle: "Jaiva-dharma"},
		{ID: "2", EnglishTitle: "Bhakti-rasāmṛta-sindhu"},
		{ID: "3"},
	}

	if got := Books(books, ""); got != nil {
		t.Errorf("expected nil for empty query, got %v", got)
	}

	results := Books(books, "dharma")
	if len(results) != 1 || results[0].Book.ID != "1" {
		t.Fatalf("expected book 1, got %+v", results)
	}

	results = Books(books, "Book 3")
	if len(results) != 1 || results[0].Title != "Book 3" {
		t.Fatalf("expected synthesized title match, got %+v", results)
	}
}
