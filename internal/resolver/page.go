// Package resolver maps user page references to page numbers, builds TOC
// trees and computes alphabetic group keys for titles. All functions are
// pure.
package resolver

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nikbrunner/pbb/internal/model"
)

var (
	ErrEmptyInput = errors.New("page reference is empty")
	// ErrPageNotFound matches any *PageNotFoundError.
	ErrPageNotFound = errors.New("page not found")
)

// PageNotFoundError describes an unresolvable page reference together
// with the valid range and an example label for display.
type PageNotFoundError struct {
	Input        string
	Total        int
	ExampleLabel string
}

func (e *PageNotFoundError) Error() string {
	if e.Total < 1 {
		return fmt.Sprintf("page %q not found: this book has no numbered pages; try a label such as %q", e.Input, e.ExampleLabel)
	}
	return fmt.Sprintf("page %q not found: enter a number from 1 to %d or a label such as %q", e.Input, e.Total, e.ExampleLabel)
}

func (e *PageNotFoundError) Is(target error) bool {
	return target == ErrPageNotFound
}

// ResolvePage resolves input against the page list. A case-insensitive
// label match wins (first one if labels repeat); otherwise a number in
// [1, totalPages] is accepted even when no descriptor carries it.
func ResolvePage(input string, pages []model.Page, totalPages int) (int, error) {
	ref := strings.TrimSpace(input)
	if ref == "" {
		return 0, ErrEmptyInput
	}

	for _, p := range pages {
		if strings.EqualFold(strings.TrimSpace(p.Label), ref) {
			return p.Number, nil
		}
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= totalPages {
		for _, p := range pages {
			if p.Number == n {
				return p.Number, nil
			}
		}
		return n, nil
	}

	return 0, &PageNotFoundError{
		Input:        ref,
		Total:        totalPages,
		ExampleLabel: exampleLabel(pages),
	}
}

// exampleLabel prefers the first label that is not a plain number.
func exampleLabel(pages []model.Page) string {
	for _, p := range pages {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			continue
		}
		if _, err := strconv.Atoi(label); err != nil {
			return label
		}
	}
	for _, p := range pages {
		if label := strings.TrimSpace(p.Label); label != "" {
			return label
		}
	}
	return "i"
}

// PageLabel returns the label of page n, or "Page n" when it has none.
func PageLabel(pages []model.Page, n int) string {
	for _, p := range pages {
		if p.Number == n && strings.TrimSpace(p.Label) != "" {
			return p.Label
		}
	}
	return "Page " + strconv.Itoa(n)
}

// FirstPage returns the page a freshly opened book starts on: the first
// descriptor's number, or 1.
func FirstPage(pages []model.Page) int {
	if len(pages) > 0 && pages[0].Number > 0 {
		return pages[0].Number
	}
	return 1
}

// Reachable reports whether page n can be opened: it lies in
// [1, totalPages] or a descriptor carries it.
func Reachable(n int, pages []model.Page, totalPages int) bool {
	if n >= 1 && n <= totalPages {
		return true
	}
	for _, p := range pages {
		if p.Number == n {
			return true
		}
	}
	return false
}

// Neighbour returns the page delta steps away from current. Books whose
// descriptors all fall inside [1, totalPages] step arithmetically within
// that range; otherwise steps follow the sorted descriptor numbers. ok is
// false when the move would leave the book.
func Neighbour(current, delta int, pages []model.Page, totalPages int) (page int, ok bool) {
	if delta == 0 {
		return current, true
	}

	seq := pageSequence(pages, totalPages)
	if seq == nil {
		next := current + delta
		if totalPages < 1 || next < 1 || next > totalPages {
			return current, false
		}
		return next, true
	}

	// Position of current, or the slot it would occupy.
	idx := sort.SearchInts(seq, current)
	switch {
	case idx < len(seq) && seq[idx] == current:
		idx += delta
	case delta > 0:
		idx += delta - 1
	default:
		idx += delta
	}
	if idx < 0 || idx >= len(seq) {
		return current, false
	}
	return seq[idx], true
}

// pageSequence returns the sorted unique descriptor numbers when at least
// one falls outside [1, totalPages], else nil.
func pageSequence(pages []model.Page, totalPages int) []int {
	sparse := false
	for _, p := range pages {
		if p.Number < 1 || p.Number > totalPages {
			sparse = true
			break
		}
	}
	if !sparse {
		return nil
	}

	seen := make(map[int]bool, len(pages))
	seq := make([]int, 0, len(pages))
	for _, p := range pages {
		if !seen[p.Number] {
			seen[p.Number] = true
			seq = append(seq, p.Number)
		}
	}
	sort.Ints(seq)
	return seq
}
