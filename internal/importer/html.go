package importer

import (
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/pbb/internal/model"
)

// Result holds the bookmarks recovered from an HTML file. Anchors that
// don't point at a book page are counted in Skipped.
type Result struct {
	Bookmarks []model.Bookmark
	Skipped   int
}

// ParseHTMLBookmarks parses Netscape bookmark HTML. Anchors whose href
// carries book_id and page query parameters become bookmarks; the
// enclosing H3 folder is the book title and the anchor text the custom
// name. Returned bookmarks have no ID.
func ParseHTMLBookmarks(r io.Reader) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// Track current folder stack for the book title
	var folderStack []string
	pendingFolder := "" // folder waiting to be pushed on next DL
	hasPending := false

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = getTextContent(n)
				hasPending = true
				return // Don't recurse into H3

			case "a":
				folder := ""
				if len(folderStack) > 0 {
					folder = folderStack[len(folderStack)-1]
				}
				if bm, ok := parseAnchor(n, folder); ok {
					result.Bookmarks = append(result.Bookmarks, bm)
				} else {
					result.Skipped++
				}
				return // Don't recurse into A

			case "dl":
				// If we have a pending folder, push it now
				pushedFolder := false
				if hasPending {
					folderStack = append(folderStack, pendingFolder)
					hasPending = false
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder && len(folderStack) > 0 {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return result, nil
}

// parseAnchor turns one <A> into a bookmark.
func parseAnchor(n *html.Node, folder string) (model.Bookmark, bool) {
	bookID, page, ok := parseReaderLink(getAttr(n, "href"))
	if !ok {
		return model.Bookmark{}, false
	}

	text := getTextContent(n)
	title := folder
	if title == "" {
		title = titleFromText(text, page)
	}
	if title == "" {
		title = model.Book{ID: bookID}.DisplayTitle()
	}

	customName := text
	if customName == model.DefaultBookmarkName(title, page) {
		customName = ""
	}

	createdAt := parseUnix(getAttr(n, "add_date"))
	updatedAt := parseUnix(getAttr(n, "last_modified"))
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return model.Bookmark{
		BookID:     bookID,
		BookTitle:  title,
		PageNumber: page,
		CustomName: customName,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, true
}

// parseReaderLink extracts book_id and page from a reader URL.
func parseReaderLink(href string) (model.BookID, int, bool) {
	if href == "" {
		return "", 0, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", 0, false
	}

	q := u.Query()
	id := strings.TrimSpace(q.Get("book_id"))
	if id == "" {
		id = strings.TrimSpace(q.Get("bookId"))
	}
	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if id == "" || err != nil || page <= 0 {
		return "", 0, false
	}
	return model.BookID(id), page, true
}

// titleFromText recovers the title from a default name "<title> · p. N".
func titleFromText(text string, page int) string {
	suffix := " · p. " + strconv.Itoa(page)
	if title, ok := strings.CutSuffix(text, suffix); ok {
		return strings.TrimSpace(title)
	}
	return ""
}

func parseUnix(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
