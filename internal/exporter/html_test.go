package exporter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/pbb/internal/model"
)

type testLinker struct{}

func (testLinker) ReaderURL(id model.BookID, page int) string {
	return fmt.Sprintf("https://books.example.org/reader?book_id=%s&page=%d", id, page)
}

func TestExportHTML_Empty(t *testing.T) {
	html := ExportHTML(nil, testLinker{})

	// Should have basic structure even when empty
	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if strings.Contains(html, "<H3>") {
		t.Error("expected no folders")
	}
}

func TestExportHTML_SingleBookmark(t *testing.T) {
	bookmarks := []model.Bookmark{{
		ID:         "b1",
		BookID:     "12",
		BookTitle:  "Jaiva-dharma",
		PageNumber: 4,
		CreatedAt:  time.Unix(1700000000, 0),
		UpdatedAt:  time.Unix(1700000500, 0),
	}}

	html := ExportHTML(bookmarks, testLinker{})

	if !strings.Contains(html, `<DT><H3>Jaiva-dharma</H3>`) {
		t.Error("expected book folder")
	}
	if !strings.Contains(html, `<A HREF="https://books.example.org/reader?book_id=12&amp;page=4"`) {
		t.Errorf("expected escaped reader link, got:\n%s", html)
	}
	if !strings.Contains(html, "Jaiva-dharma · p. 4</A>") {
		t.Error("expected default display name")
	}
	if !strings.Contains(html, `ADD_DATE="1700000000"`) {
		t.Error("expected ADD_DATE timestamp")
	}
	if !strings.Contains(html, `LAST_MODIFIED="1700000500"`) {
		t.Error("expected LAST_MODIFIED timestamp")
	}
}

func TestExportHTML_GroupsByBook(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "b1", BookID: "2", BookTitle: "Gīta-govinda", PageNumber: 9},
		{ID: "b2", BookID: "1", BookTitle: "Jaiva-dharma", PageNumber: 4, CustomName: "Nāma <tattva>"},
		{ID: "b3", BookID: "2", BookTitle: "Gīta-govinda", PageNumber: 1},
	}

	html := ExportHTML(bookmarks, testLinker{})

	if n := strings.Count(html, "<H3>"); n != 2 {
		t.Fatalf("expected 2 folders, got %d", n)
	}
	gita := strings.Index(html, "<H3>Gīta-govinda</H3>")
	jaiva := strings.Index(html, "<H3>Jaiva-dharma</H3>")
	if gita < 0 || jaiva < 0 || gita > jaiva {
		t.Error("expected folders in order of first appearance")
	}

	p9 := strings.Index(html, "page=9")
	p1 := strings.Index(html, "page=1\"")
	if p9 < 0 || p1 < 0 || p9 > jaiva || p1 > jaiva {
		t.Error("expected both Gīta-govinda bookmarks inside its folder")
	}
	if !strings.Contains(html, "Nāma &lt;tattva&gt;</A>") {
		t.Error("expected escaped custom name")
	}
}

func TestExportHTML_Structure(t *testing.T) {
	bookmarks := []model.Bookmark{{ID: "b1", BookID: "1", BookTitle: "A", PageNumber: 1}}

	html := ExportHTML(bookmarks, testLinker{})

	if strings.Count(html, "<DL><p>") != strings.Count(html, "</DL><p>") {
		t.Error("unbalanced DL tags")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC)

	if got := ExportFilename(now, "json"); got != "pbb-bookmarks-2025-07-04.json" {
		t.Errorf("unexpected filename %q", got)
	}
	if got := ExportFilename(now, ".html"); got != "pbb-bookmarks-2025-07-04.html" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestDefaultExportPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := DefaultExportPath("json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(path, "Downloads") || !strings.HasSuffix(path, ".json") {
		t.Errorf("unexpected path %q", path)
	}
}
