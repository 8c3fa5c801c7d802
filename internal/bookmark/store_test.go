package bookmark_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/pbb/internal/bookmark"
	"github.com/nikbrunner/pbb/internal/model"
	"github.com/nikbrunner/pbb/internal/storage"
)

// testClock returns a clock advancing one minute per call.
func testClock() func() time.Time {
	t := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// testIDs returns an id generator producing bm-1, bm-2, ...
func testIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("bm-%d", n)
	}
}

func newTestStore(t *testing.T, backend *storage.MemoryBackend) *bookmark.Store {
	t.Helper()
	return bookmark.New(backend,
		bookmark.WithClock(testClock()),
		bookmark.WithIDGenerator(testIDs()),
	)
}

func TestStore_ListEmpty(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	list := s.List()
	assert.Assert(t, list != nil)
	assert.Check(t, is.Len(list, 0))
}

func TestStore_ListCorruptedSlot(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend([]byte(`{not json`)))

	list := s.List()
	assert.Assert(t, list != nil)
	assert.Check(t, is.Len(list, 0))
}

func TestStore_ListReadError(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	backend.ReadErr = errors.New("disk gone")
	s := newTestStore(t, backend)

	assert.Check(t, is.Len(s.List(), 0))
	assert.Check(t, s.IsBookmarked("1", 1) == nil)
	assert.Check(t, is.Len(s.ByBook("1"), 0))
}

func TestStore_AddThenIsBookmarked(t *testing.T) {
	tests := []struct {
		name   string
		params bookmark.AddParams
	}{
		{"numeric id", bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4}},
		{"string id", bookmark.AddParams{BookID: "abc-1", BookTitle: "Gītā", PageNumber: 1, CustomName: "start"}},
		{"large page", bookmark.AddParams{BookID: "7", BookTitle: "Bhāgavatam", PageNumber: 1042}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, storage.NewMemoryBackend(nil))

			added, err := s.Add(tt.params)
			assert.NilError(t, err)
			assert.Assert(t, added != nil)

			got := s.IsBookmarked(tt.params.BookID, tt.params.PageNumber)
			assert.Assert(t, got != nil)
			assert.Equal(t, got.ID, added.ID)
			assert.Equal(t, got.BookID, tt.params.BookID)
			assert.Equal(t, got.BookTitle, tt.params.BookTitle)
			assert.Equal(t, got.PageNumber, tt.params.PageNumber)
			assert.Equal(t, got.CustomName, tt.params.CustomName)
			assert.Assert(t, got.CreatedAt.Equal(got.UpdatedAt))
		})
	}
}

func TestStore_IsBookmarkedMissing(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "A", PageNumber: 3})
	assert.NilError(t, err)

	assert.Check(t, s.IsBookmarked("1", 4) == nil)
	assert.Check(t, s.IsBookmarked("2", 3) == nil)
}

func TestStore_AddSamePageUpdatesInPlace(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	first, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4, CustomName: "one"})
	assert.NilError(t, err)

	second, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4, CustomName: "two"})
	assert.NilError(t, err)

	assert.Check(t, is.Len(s.List(), 1))
	assert.Equal(t, second.ID, first.ID)
	assert.Assert(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Assert(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, second.CustomName, "two")
}

func TestStore_AddEmptyNameKeepsExisting(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	_, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4, CustomName: "keep me"})
	assert.NilError(t, err)

	got, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4})
	assert.NilError(t, err)
	assert.Equal(t, got.CustomName, "keep me")
}

func TestStore_AddMatchesNumericAndStringIDs(t *testing.T) {
	backend := storage.NewMemoryBackend([]byte(`[{"id":"old","bookId":12,"bookTitle":"T","pageNumber":4,"customName":"","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`))
	s := newTestStore(t, backend)

	got, err := s.Add(bookmark.AddParams{BookID: " 12 ", BookTitle: "T", PageNumber: 4})
	assert.NilError(t, err)
	assert.Equal(t, got.ID, "old")
	assert.Check(t, is.Len(s.List(), 1))
}

func TestStore_AddValidation(t *testing.T) {
	tests := []struct {
		name   string
		params bookmark.AddParams
		fields []string
	}{
		{"missing book id", bookmark.AddParams{BookTitle: "T", PageNumber: 1}, []string{"bookId"}},
		{"blank book id", bookmark.AddParams{BookID: "  ", BookTitle: "T", PageNumber: 1}, []string{"bookId"}},
		{"missing title", bookmark.AddParams{BookID: "1", PageNumber: 1}, []string{"bookTitle"}},
		{"zero page", bookmark.AddParams{BookID: "1", BookTitle: "T"}, []string{"pageNumber"}},
		{"negative page", bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: -2}, []string{"pageNumber"}},
		{"everything missing", bookmark.AddParams{}, []string{"bookId", "bookTitle", "pageNumber"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storage.NewMemoryBackend(nil)
			s := newTestStore(t, backend)

			got, err := s.Add(tt.params)
			assert.Check(t, got == nil)
			assert.ErrorIs(t, err, bookmark.ErrValidation)

			var verr *bookmark.ValidationError
			assert.Assert(t, errors.As(err, &verr))
			assert.Check(t, is.Len(verr.Fields, len(tt.fields)))
			for _, f := range tt.fields {
				_, ok := verr.Fields[f]
				assert.Check(t, ok, "expected field %s in %v", f, verr.Fields)
			}
			assert.Check(t, backend.Bytes() == nil, "nothing should be written")
		})
	}
}

func TestStore_AddWriteFailure(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	backend.WriteErr = errors.New("quota exceeded")
	s := newTestStore(t, backend)

	got, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)
	assert.Check(t, got == nil)
}

func TestStore_AddDoesNotOverwriteUnreadableSlot(t *testing.T) {
	backend := storage.NewMemoryBackend([]byte(`{broken`))
	s := newTestStore(t, backend)

	got, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)
	assert.Check(t, got == nil)
	assert.Equal(t, string(backend.Bytes()), `{broken`)
}

func TestStore_AddPreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	for _, page := range []int{9, 2, 5} {
		_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: page})
		assert.NilError(t, err)
	}

	list := s.List()
	assert.Assert(t, is.Len(list, 3))
	assert.Equal(t, list[0].PageNumber, 9)
	assert.Equal(t, list[1].PageNumber, 2)
	assert.Equal(t, list[2].PageNumber, 5)
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	added, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1, CustomName: "old"})
	assert.NilError(t, err)

	got := s.Update(added.ID, "new")
	assert.Assert(t, got != nil)
	assert.Equal(t, got.CustomName, "new")
	assert.Assert(t, got.UpdatedAt.After(added.UpdatedAt))
	assert.Assert(t, got.CreatedAt.Equal(added.CreatedAt))

	// Update, unlike Add, clears with an empty name.
	got = s.Update(added.ID, "")
	assert.Assert(t, got != nil)
	assert.Equal(t, s.List()[0].CustomName, "")
}

func TestStore_UpdateUnknownID(t *testing.T) {
	backend := storage.NewMemoryBackend([]byte("[]"))
	s := newTestStore(t, backend)

	assert.Check(t, s.Update("missing", "x") == nil)
	assert.Equal(t, string(backend.Bytes()), "[]")
}

func TestStore_UpdateWriteFailure(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	added, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)

	backend.WriteErr = errors.New("quota exceeded")
	assert.Check(t, s.Update(added.ID, "x") == nil)
}

func TestStore_DeleteUnknownID(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)
	before := string(backend.Bytes())

	assert.Check(t, !s.Delete("missing"))
	assert.Equal(t, string(backend.Bytes()), before)
}

func TestStore_DeleteRemovesExactlyOne(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	var ids []string
	for page := 1; page <= 3; page++ {
		b, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: page})
		assert.NilError(t, err)
		ids = append(ids, b.ID)
	}
	before := s.List()

	assert.Assert(t, s.Delete(ids[1]))

	after := s.List()
	assert.Assert(t, is.Len(after, 2))
	assert.DeepEqual(t, after[0], before[0])
	assert.DeepEqual(t, after[1], before[2])
}

func TestStore_DeleteWriteFailure(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	added, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)

	backend.WriteErr = errors.New("quota exceeded")
	assert.Check(t, !s.Delete(added.ID))
}

func TestStore_ClearAll(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	for page := 1; page <= 3; page++ {
		_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: page})
		assert.NilError(t, err)
	}

	assert.Assert(t, s.ClearAll())
	assert.Check(t, is.Len(s.List(), 0))
	assert.Equal(t, string(backend.Bytes()), "[]")

	// Clearing a corrupted slot works too.
	corrupted := storage.NewMemoryBackend([]byte(`{broken`))
	assert.Assert(t, newTestStore(t, corrupted).ClearAll())
	assert.Equal(t, string(corrupted.Bytes()), "[]")

	failing := storage.NewMemoryBackend(nil)
	failing.WriteErr = errors.New("quota exceeded")
	assert.Check(t, !newTestStore(t, failing).ClearAll())
}

func TestStore_ByBook(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	for _, p := range []bookmark.AddParams{
		{BookID: "1", BookTitle: "A", PageNumber: 3},
		{BookID: "2", BookTitle: "B", PageNumber: 1},
		{BookID: "1", BookTitle: "A", PageNumber: 1},
	} {
		_, err := s.Add(p)
		assert.NilError(t, err)
	}

	got := s.ByBook("1")
	assert.Assert(t, is.Len(got, 2))
	assert.Equal(t, got[0].PageNumber, 3)
	assert.Equal(t, got[1].PageNumber, 1)
	assert.Check(t, is.Len(s.ByBook("9"), 0))
}

func TestStore_ExportEmpty(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	assert.Equal(t, s.Export(), "[]")
}

func TestStore_ExportIsIndentedAndDeterministic(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	_, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4})
	assert.NilError(t, err)

	want := `[
  {
    "id": "bm-1",
    "bookId": 12,
    "bookTitle": "Jaiva-dharma",
    "pageNumber": 4,
    "customName": "",
    "createdAt": "2025-03-01T09:01:00Z",
    "updatedAt": "2025-03-01T09:01:00Z"
  }
]`
	assert.Equal(t, s.Export(), want)
	assert.Equal(t, s.Export(), want)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t, storage.NewMemoryBackend(nil))
	for _, p := range []bookmark.AddParams{
		{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 4, CustomName: "Chapter 2"},
		{BookID: "abc", BookTitle: "Śrī Gīta-govinda", PageNumber: 17},
		{BookID: "12", BookTitle: "Jaiva-dharma", PageNumber: 90},
	} {
		_, err := src.Add(p)
		assert.NilError(t, err)
	}

	dst := newTestStore(t, storage.NewMemoryBackend(nil))
	result, err := dst.Import(src.Export())
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 3, Skipped: 0})

	assert.DeepEqual(t, dst.List(), src.List())
	assert.Equal(t, dst.Export(), src.Export())
}

func TestStore_ImportIsIdempotent(t *testing.T) {
	payload := `[
		{"id":"a","bookId":1,"bookTitle":"A","pageNumber":1,"customName":"","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"},
		{"bookId":"2","bookTitle":"B","pageNumber":5,"customName":"x","createdAt":"2024-01-02T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"}
	]`

	once := newTestStore(t, storage.NewMemoryBackend(nil))
	_, err := once.Import(payload)
	assert.NilError(t, err)

	twice := newTestStore(t, storage.NewMemoryBackend(nil))
	_, err = twice.Import(payload)
	assert.NilError(t, err)
	result, err := twice.Import(payload)
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 0, Skipped: 2})

	assert.DeepEqual(t, twice.List(), once.List())
}

func TestStore_ImportNeverOverwritesExisting(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	local, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "A", PageNumber: 1, CustomName: "local"})
	assert.NilError(t, err)

	result, err := s.Import(`[{"id":"remote","bookId":1,"bookTitle":"A","pageNumber":1,"customName":"remote","createdAt":"2030-01-01T00:00:00Z","updatedAt":"2030-01-01T00:00:00Z"}]`)
	assert.NilError(t, err)
	assert.Equal(t, result.Skipped, 1)

	list := s.List()
	assert.Assert(t, is.Len(list, 1))
	assert.DeepEqual(t, list[0], *local)
}

func TestStore_ImportGeneratesMissingIDs(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	_, err := s.Import(`[{"bookId":3,"bookTitle":"C","pageNumber":2}]`)
	assert.NilError(t, err)

	list := s.List()
	assert.Assert(t, is.Len(list, 1))
	assert.Equal(t, list[0].ID, "bm-1")
	assert.Assert(t, !list[0].CreatedAt.IsZero())
	assert.Assert(t, list[0].UpdatedAt.Equal(list[0].CreatedAt))
}

func TestStore_ImportReplacesTakenIDs(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	local, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "A", PageNumber: 1})
	assert.NilError(t, err)

	result, err := s.Import(fmt.Sprintf(`[
		{"id":%q,"bookId":2,"bookTitle":"B","pageNumber":5},
		{"id":"x","bookId":3,"bookTitle":"C","pageNumber":1},
		{"id":"x","bookId":3,"bookTitle":"C","pageNumber":2}
	]`, local.ID))
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 3})

	list := s.List()
	assert.Assert(t, is.Len(list, 4))
	assert.Equal(t, list[0].ID, local.ID)
	assert.Equal(t, list[1].ID, "bm-2")
	assert.Equal(t, list[2].ID, "x")
	assert.Equal(t, list[3].ID, "bm-3")

	assert.Assert(t, s.Delete(local.ID))
	remaining := s.List()
	assert.Assert(t, is.Len(remaining, 3))
	assert.Equal(t, remaining[0].BookID, model.BookID("2"))
}

func TestStore_ImportSkipsDuplicatesWithinPayload(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	result, err := s.Import(`[
		{"id":"a","bookId":1,"bookTitle":"A","pageNumber":1},
		{"id":"b","bookId":"1","bookTitle":"A","pageNumber":1}
	]`)
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 1, Skipped: 1})
	assert.Equal(t, s.List()[0].ID, "a")
}

func TestStore_ImportSkipsRecordsWithoutTarget(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))

	result, err := s.Import(`[{"id":"a","bookTitle":"A","pageNumber":1},{"id":"b","bookId":1,"bookTitle":"A"}]`)
	assert.NilError(t, err)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 0, Skipped: 2})
}

func TestStore_ImportFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"object", `{"bookmarks":[]}`},
		{"string", `"hello"`},
		{"number", `42`},
		{"null", `null`},
		{"empty", `   `},
		{"invalid json", `[{"id":`},
		{"non-object record", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := storage.NewMemoryBackend([]byte("[]"))
			s := newTestStore(t, backend)

			result, err := s.Import(tt.data)
			assert.Check(t, result == nil)
			assert.ErrorIs(t, err, bookmark.ErrFormat)
			assert.Equal(t, string(backend.Bytes()), "[]")
		})
	}
}

func TestStore_ImportWriteFailure(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	backend.WriteErr = errors.New("quota exceeded")
	s := newTestStore(t, backend)

	result, err := s.Import(`[{"bookId":1,"bookTitle":"A","pageNumber":1}]`)
	assert.NilError(t, err)
	assert.Check(t, result == nil)
}

func TestStore_PersistsJSONArray(t *testing.T) {
	backend := storage.NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	_, err := s.Add(bookmark.AddParams{BookID: "12", BookTitle: "T", PageNumber: 4})
	assert.NilError(t, err)

	var raw []map[string]any
	assert.NilError(t, json.Unmarshal(backend.Bytes(), &raw))
	assert.Assert(t, is.Len(raw, 1))
	assert.Equal(t, raw[0]["bookId"], float64(12))
	assert.Equal(t, raw[0]["pageNumber"], float64(4))
}

func TestStore_WorksOverFileBackend(t *testing.T) {
	path := t.TempDir() + "/bookmarks.json"
	s := bookmark.New(storage.NewFileBackend(path))

	_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "T", PageNumber: 1})
	assert.NilError(t, err)

	reopened := bookmark.New(storage.NewFileBackend(path))
	assert.Check(t, reopened.IsBookmarked(model.BookID("1"), 1) != nil)
}

func TestStore_ImportBookmarks(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryBackend(nil))
	_, err := s.Add(bookmark.AddParams{BookID: "1", BookTitle: "A", PageNumber: 1})
	assert.NilError(t, err)

	result := s.ImportBookmarks([]model.Bookmark{
		{BookID: "1", BookTitle: "A", PageNumber: 1},
		{BookID: " 2 ", BookTitle: "B", PageNumber: 7, CustomName: "from html"},
	})
	assert.Assert(t, result != nil)
	assert.Equal(t, *result, bookmark.ImportResult{Added: 1, Skipped: 1})

	got := s.IsBookmarked("2", 7)
	assert.Assert(t, got != nil)
	assert.Equal(t, got.ID, "bm-2")
	assert.Equal(t, got.CustomName, "from html")
}
