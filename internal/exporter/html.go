package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/pbb/internal/model"
)

// Linker builds the link a bookmark points to.
type Linker interface {
	ReaderURL(id model.BookID, page int) string
}

// ExportFilename returns pbb-bookmarks-YYYY-MM-DD.<ext>.
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("pbb-bookmarks-%s.%s", now.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/pbb-bookmarks-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads", ExportFilename(time.Now(), ext)), nil
}

// bookFolder groups the bookmarks of one book.
type bookFolder struct {
	title     string
	bookmarks []model.Bookmark
}

// groupByBook keeps books in order of first appearance.
func groupByBook(bookmarks []model.Bookmark) []*bookFolder {
	var folders []*bookFolder
	index := make(map[model.BookID]*bookFolder)
	for _, bm := range bookmarks {
		key := model.BookID(strings.TrimSpace(bm.BookID.String()))
		f, ok := index[key]
		if !ok {
			f = &bookFolder{title: bm.BookTitle}
			index[key] = f
			folders = append(folders, f)
		}
		f.bookmarks = append(f.bookmarks, bm)
	}
	return folders
}

// ExportHTML exports bookmarks to Netscape bookmark HTML format, one
// folder per book. Links point at the web reader.
func ExportHTML(bookmarks []model.Bookmark, linker Linker) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	prefix := "    "
	for _, folder := range groupByBook(bookmarks) {
		fmt.Fprintf(&b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(folder.title))
		fmt.Fprintf(&b, "%s<DL><p>\n", prefix)
		for _, bm := range folder.bookmarks {
			fmt.Fprintf(&b,
				"%s    <DT><A HREF=\"%s\" ADD_DATE=\"%d\" LAST_MODIFIED=\"%d\">%s</A>\n",
				prefix,
				html.EscapeString(linker.ReaderURL(bm.BookID, bm.PageNumber)),
				bm.CreatedAt.Unix(),
				bm.UpdatedAt.Unix(),
				html.EscapeString(bm.DisplayName()),
			)
		}
		fmt.Fprintf(&b, "%s</DL><p>\n", prefix)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}
