package proptext

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMalformedPath     = errors.New("malformed path")
	ErrInvalidOrdering   = errors.New("incomparable path segments")
	ErrUnorderedInput    = errors.New("unordered input")
	ErrMultilineValue    = errors.New("value contains a line break")
	ErrReopenedItem      = errors.New("list item already written")
	ErrFormat            = errors.New("malformed line")
	ErrAmbiguousIndent   = errors.New("ambiguous indentation")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// FormatError reports a line the reader could not parse.
// It matches [ErrFormat] with errors.Is.
type FormatError struct {
	Line    int
	Content string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// AmbiguousIndentError reports a line nested more than one level below the
// deepest open parent. It is raised in both strict and lenient mode.
type AmbiguousIndentError struct {
	Line    int
	Content string
	Depth   int
	Max     int
}

func (e *AmbiguousIndentError) Error() string {
	return fmt.Sprintf("line %d: %s: depth %d exceeds %d: %q", e.Line, ErrAmbiguousIndent, e.Depth, e.Max, e.Content)
}

func (e *AmbiguousIndentError) Is(target error) bool { return target == ErrAmbiguousIndent }
