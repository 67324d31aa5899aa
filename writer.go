package proptext

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Writer emits properties as indented text. The input must already be
// ordered so that properties sharing a prefix are contiguous and list
// indices ascend numerically; see [Sort]. The writer does not own w.
type Writer struct {
	w   io.Writer
	cfg config

	// stack[0] is the document root; stack[i] is the open container at
	// depth i-1.
	stack   []entry
	prev    []Segment
	hasPrev bool
	line    strings.Builder
}

// entry is an open container on the ancestor stack.
type entry struct {
	seg     Segment
	list    bool // children are list items
	started bool // at least one child has been emitted
	last    int  // index of the last list item
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{
		w:     w,
		cfg:   newConfig(opts),
		stack: []entry{{}},
	}
}

// Reset forgets all open containers so the next property starts a new
// document.
func (w *Writer) Reset() {
	w.stack = w.stack[:1]
	w.stack[0] = entry{}
	w.prev = nil
	w.hasPrev = false
}

// Append writes a single line at depth without touching the ancestor
// stack. A list line with an empty key renders the bare value.
func (w *Writer) Append(depth int, key, value string, isList bool) error {
	if depth < 0 {
		return fmt.Errorf("negative depth %d", depth)
	}
	if key == "" && !isList {
		return fmt.Errorf("%w: empty key outside a list", ErrMalformedPath)
	}
	items := 0
	if isList {
		items = 1
	}
	return w.appendLine(depth, items, key, value)
}

// appendLine writes indentation, items list markers, and either key: value
// or the bare value when key is empty.
func (w *Writer) appendLine(depth, items int, key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %q", ErrMultilineValue, value)
	}
	if strings.ContainsAny(key, "\r\n") {
		return fmt.Errorf("%w: key %q", ErrMultilineValue, key)
	}
	b := &w.line
	b.Reset()
	w.calculateTabs(b, depth)
	for i := range items {
		b.WriteByte('-')
		if i < items-1 || key != "" || value != "" {
			b.WriteByte(' ')
		}
	}
	if key != "" {
		escape(b, key)
		b.WriteByte(':')
		if value != "" {
			b.WriteByte(' ')
			b.WriteString(value)
		}
	} else {
		escape(b, value)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w.w, b.String())
	return err
}

// calculateTabs writes depth repetitions of the indentation unit.
func (w *Writer) calculateTabs(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString(w.cfg.indent)
	}
}

// escape writes s so the reader recovers it verbatim: backslash and colon
// are escaped everywhere, and so is a leading dash or whitespace.
func escape(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == ':':
			b.WriteByte('\\')
		case i == 0 && (c == '-' || c == ' ' || c == '\t'):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

// WriteProperty writes p, closing ancestors that diverge from its path and
// opening the ones it adds.
func (w *Writer) WriteProperty(p Property) error {
	segs, err := p.Segments()
	if err != nil {
		return err
	}
	if err := checkSingleLine(p, segs); err != nil {
		return err
	}

	leaf := len(segs) - 1
	common := 0
	for common < leaf && common+1 < len(w.stack) && w.stack[common+1].seg == segs[common] {
		common++
	}
	if w.cfg.listLength && isListLength(segs) && common == leaf && w.stack[leaf].list {
		return nil
	}
	// A written list item cannot be addressed again: the reader would number
	// anything after it as the next item.
	if seg, parent := segs[common], w.stack[common]; seg.Kind == IndexSegment &&
		parent.list && parent.started && seg.Index == parent.last {
		return fmt.Errorf("%w: %q", ErrReopenedItem, p.Path)
	}

	if w.cfg.validate && w.hasPrev {
		c, err := compareSegments(w.prev, segs)
		if err != nil {
			return err
		}
		if c >= 0 {
			return fmt.Errorf("%w: %q does not sort after %q", ErrUnorderedInput, p.Path, JoinPath(w.prev...))
		}
	}

	if w.cfg.validate {
		if err := w.checkIndices(p.Path, segs, common); err != nil {
			return err
		}
	}
	w.stack = w.stack[:common+1]

	lineDepth, items := -1, 0
	for i := common; i <= leaf; i++ {
		seg := segs[i]
		parent := &w.stack[len(w.stack)-1]
		if lineDepth < 0 {
			lineDepth = i
		}
		switch seg.Kind {
		case IndexSegment:
			parent.list = true
			parent.last = seg.Index
			items++
			if i == leaf {
				if err := w.appendLine(lineDepth, items, "", p.Value); err != nil {
					return err
				}
			}
		case NameSegment:
			value := ""
			if i == leaf {
				value = p.Value
			}
			if err := w.appendLine(lineDepth, items, seg.Name, value); err != nil {
				return err
			}
			lineDepth, items = -1, 0
		}
		parent.started = true
		if i < leaf {
			w.stack = append(w.stack, entry{seg: seg})
		}
	}

	w.prev = segs
	w.hasPrev = true
	return nil
}

// checkSingleLine rejects a property that would span lines before any of it
// is written.
func checkSingleLine(p Property, segs []Segment) error {
	if strings.ContainsAny(p.Value, "\r\n") {
		return fmt.Errorf("%w: %q", ErrMultilineValue, p.Value)
	}
	for _, seg := range segs {
		if seg.Kind == NameSegment && strings.ContainsAny(seg.Name, "\r\n") {
			return fmt.Errorf("%w: key %q", ErrMultilineValue, seg.Name)
		}
	}
	return nil
}

// isListLength reports whether segs ends in the count written by a reader
// with [WithListLength].
func isListLength(segs []Segment) bool {
	last := segs[len(segs)-1]
	return last.Kind == NameSegment && last.Name == listLengthKey
}

// checkIndices verifies that every list item opened by segs[common:]
// continues its parent's run densely from zero.
func (w *Writer) checkIndices(path string, segs []Segment, common int) error {
	parent := w.stack[common]
	for i := common; i < len(segs); i++ {
		seg := segs[i]
		if seg.Kind == IndexSegment {
			want := 0
			if parent.started && parent.list {
				want = parent.last + 1
			}
			if seg.Index != want {
				return fmt.Errorf("%w: %q: index %d, want %d", ErrUnorderedInput, path, seg.Index, want)
			}
		}
		parent = entry{}
	}
	return nil
}

// Write writes each property in order, stopping at the first error.
func (w *Writer) Write(props ...Property) error {
	for _, p := range props {
		if err := w.WriteProperty(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteSeq writes properties as seq produces them, stopping at the first
// error.
func (w *Writer) WriteSeq(seq iter.Seq[Property]) error {
	var writeErr error
	seq(func(p Property) bool {
		writeErr = w.WriteProperty(p)
		return writeErr == nil
	})
	return writeErr
}
