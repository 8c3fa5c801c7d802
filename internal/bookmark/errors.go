package bookmark

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrFormat matches any *FormatError.
	ErrFormat = errors.New("invalid bookmark data")
)

// ValidationError reports missing or invalid fields on Add.
// Fields maps JSON field names to a short message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid bookmark: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FormatError reports an import payload that is not a list of bookmarks.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid bookmark data: %s: %v", e.Reason, e.Err)
	}
	return "invalid bookmark data: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
