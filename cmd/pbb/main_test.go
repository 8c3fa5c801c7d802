package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/storage"
)

const readerLinks = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Jaiva-dharma</H3>
    <DL><p>
        <DT><A HREF="https://books.example.org/reader?book_id=12&amp;page=4">Nāma-tattva</A>
        <DT><A HREF="https://example.org/blog">Elsewhere</A>
    </DL><p>
</DL><p>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFile_JSON(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	store := bookmark.New(backend)
	path := writeFile(t, "bookmarks.json", `[{"bookId":3,"bookTitle":"Brahma-saṁhitā","pageNumber":2}]`)

	result, ignored, err := importFile(store, path)
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 1})
	assert.Equal(t, ignored, 0)
	assert.Check(t, is.Len(store.List(), 1))
}

func TestImportFile_HTML(t *testing.T) {
	store := bookmark.New(storage.NewMemoryBackend(nil))
	path := writeFile(t, "bookmarks.html", readerLinks)

	result, ignored, err := importFile(store, path)
	assert.NilError(t, err)
	assert.Equal(t, result.Added, 1)
	assert.Equal(t, ignored, 1)
	assert.Equal(t, store.List()[0].BookTitle, "Jaiva-dharma")
}

func TestImportFile_FormatError(t *testing.T) {
	store := bookmark.New(storage.NewMemoryBackend(nil))
	path := writeFile(t, "bookmarks.json", `{"bookmarks":[]}`)

	result, _, err := importFile(store, path)
	assert.Check(t, result == nil)
	assert.ErrorIs(t, err, bookmark.ErrFormat)
}

func TestImportFile_MissingFile(t *testing.T) {
	store := bookmark.New(storage.NewMemoryBackend(nil))

	_, _, err := importFile(store, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportFile_StorageFailure(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		readErr  error
		writeErr error
	}{
		{"json write", "bookmarks.json", `[{"bookId":1,"pageNumber":1}]`, nil, errors.New("disk full")},
		{"json read", "bookmarks.json", `[{"bookId":1,"pageNumber":1}]`, errors.New("is a directory"), nil},
		{"html write", "bookmarks.htm", readerLinks, nil, errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storage.NewMemoryBackend(nil)
			backend.ReadErr = tt.readErr
			backend.WriteErr = tt.writeErr
			store := bookmark.New(backend)

			result, _, err := importFile(store, writeFile(t, tt.file, tt.content))
			assert.Check(t, result == nil)
			assert.ErrorIs(t, err, errNotSaved)
			assert.Equal(t, err.Error(), "could not save")
		})
	}
}

func TestImportFile_UnreadableSlotOnDisk(t *testing.T) {
	dir := t.TempDir()
	slot := filepath.Join(dir, "bookmarks.json")
	assert.NilError(t, os.Mkdir(slot, 0755))
	store := bookmark.New(storage.NewFileBackend(slot))

	_, _, err := importFile(store, writeFile(t, "in.json", `[{"bookId":1,"pageNumber":1}]`))
	assert.ErrorIs(t, err, errNotSaved)
}
