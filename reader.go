package proptext

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Line is one decoded physical line.
type Line struct {
	Number int    // 1-based physical line number
	Depth  int    // indentation in units
	Items  int    // list markers after the indentation
	Key    string // empty for a bare list value
	Value  string
	Raw    string
}

// IsListItem reports whether the line starts with a list marker.
func (l Line) IsListItem() bool { return l.Items > 0 }

// Reader reconstructs properties from indented text, one line at a time.
// Close releases the source if it is an [io.Closer].
type Reader struct {
	src    io.Reader
	br     *bufio.Reader
	cfg    config
	number int

	root    frame
	stack   []frame // stack[i] is the open container at depth i
	pending []Property
	head    int
	eof     bool
	err     error
	closed  bool
}

// frame is an open container on the depth stack.
type frame struct {
	seg      Segment
	list     bool // children are list items
	children bool
	next     int // index of the next list item
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{src: r, br: br, cfg: newConfig(opts)}
}

// ReadLine returns the next non-blank line. It returns io.EOF when the
// input is exhausted and a *[FormatError] for a line that cannot be
// parsed; in lenient mode such lines are logged and skipped.
func (r *Reader) ReadLine() (Line, error) {
	for {
		raw, err := r.readRaw()
		if err != nil {
			return Line{}, err
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line, err := r.parseLine(raw)
		if err != nil {
			if r.skip(err) {
				continue
			}
			return Line{}, err
		}
		return line, nil
	}
}

func (r *Reader) readRaw() (string, error) {
	raw, err := r.br.ReadString('\n')
	if err != nil && (err != io.EOF || raw == "") {
		return "", err
	}
	r.number++
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	return raw, nil
}

// skip reports whether err is a format error the lenient mode swallows.
func (r *Reader) skip(err error) bool {
	var fe *FormatError
	if !r.cfg.lenient || !errors.As(err, &fe) {
		return false
	}
	r.cfg.logger.Debug("skipping malformed line", "line", fe.Line, "reason", fe.Reason, "content", fe.Content)
	return true
}

func (r *Reader) parseLine(raw string) (Line, error) {
	line := Line{Number: r.number, Raw: raw}
	malformed := func(reason string) (Line, error) {
		return Line{}, &FormatError{Line: r.number, Content: raw, Reason: reason}
	}

	rest := strings.TrimLeft(raw, " ")
	if strings.HasPrefix(rest, "\t") {
		return malformed("tab in indentation")
	}
	spaces := len(raw) - len(rest)
	unit := len(r.cfg.indent)
	if spaces%unit != 0 {
		return malformed("indentation is not a multiple of the indent unit")
	}
	line.Depth = spaces / unit

	for {
		if rest == "-" {
			line.Items++
			rest = ""
			break
		}
		after, ok := strings.CutPrefix(rest, "- ")
		if !ok {
			break
		}
		line.Items++
		rest = after
	}

	sep := separator(rest)
	switch {
	case sep >= 0:
		line.Key = unescape(rest[:sep])
		if line.Key == "" {
			return malformed("empty key")
		}
		value := rest[sep+1:]
		line.Value = strings.TrimPrefix(value, " ")
	case line.Items > 0:
		line.Value = unescape(rest)
	default:
		return malformed("missing ':' separator")
	}
	return line, nil
}

// separator returns the byte offset of the first unescaped colon, or -1.
func separator(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ':':
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Next returns the next property, or io.EOF once the input is exhausted.
// Errors are sticky: after one, every call returns it again.
func (r *Reader) Next() (Property, error) {
	for r.head == len(r.pending) {
		if r.err != nil {
			return Property{}, r.err
		}
		r.pending, r.head = r.pending[:0], 0
		if r.eof {
			return Property{}, io.EOF
		}
		line, err := r.ReadLine()
		switch {
		case err == io.EOF:
			r.closeTo(0)
			if r.cfg.listLength && r.root.list {
				r.emit(Name(listLengthKey), strconv.Itoa(r.root.next))
			}
			r.eof = true
		case err != nil:
			r.err = err
		default:
			if err := r.consume(line); err != nil && !r.skip(err) {
				r.err = err
			}
		}
	}
	p := r.pending[r.head]
	r.head++
	return p, nil
}

// All returns the property stream. It is forward-only and yields at most one
// error, after which it stops.
func (r *Reader) All() iter.Seq2[Property, error] {
	return func(yield func(Property, error) bool) {
		for {
			p, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll drains the stream.
func (r *Reader) ReadAll() ([]Property, error) {
	var props []Property
	for p, err := range r.All() {
		if err != nil {
			return props, err
		}
		props = append(props, p)
	}
	return props, nil
}

// Close closes the underlying source when it implements [io.Closer].
// Calls after the first return nil.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// consume folds one line into the depth stack, queueing any properties it
// completes. The stack is left untouched when the line is rejected.
func (r *Reader) consume(line Line) error {
	d := line.Depth
	if d > len(r.stack) {
		return &AmbiguousIndentError{Line: line.Number, Content: line.Raw, Depth: d, Max: len(r.stack)}
	}
	parent := r.parentAt(d)
	if parent.children && parent.list != line.IsListItem() {
		reason := "key in a list"
		if line.IsListItem() {
			reason = "list item in a mapping"
		}
		return &FormatError{Line: line.Number, Content: line.Raw, Reason: reason}
	}
	r.closeTo(d)

	for range line.Items {
		parent = r.parentAt(len(r.stack))
		parent.list = true
		parent.children = true
		seg := Index(parent.next)
		parent.next++
		r.stack = append(r.stack, frame{seg: seg})
	}

	switch {
	case line.Key != "":
		parent = r.parentAt(len(r.stack))
		parent.children = true
		if line.Value != "" {
			r.emit(Name(line.Key), line.Value)
		} else {
			r.stack = append(r.stack, frame{seg: Name(line.Key)})
		}
	case line.Value != "":
		r.stack = r.stack[:len(r.stack)-1]
		r.emit(Index(r.parentAt(len(r.stack)).next-1), line.Value)
	}
	return nil
}

// parentAt returns the container that owns children at depth d.
func (r *Reader) parentAt(d int) *frame {
	if d == 0 {
		return &r.root
	}
	return &r.stack[d-1]
}

// closeTo pops containers at depth d and deeper. A container closed without
// children was an empty leaf and yields an empty value.
func (r *Reader) closeTo(d int) {
	for len(r.stack) > d {
		switch top := r.stack[len(r.stack)-1]; {
		case !top.children:
			r.pending = append(r.pending, Property{Path: r.path(nil)})
		case top.list && r.cfg.listLength:
			r.emit(Name(listLengthKey), strconv.Itoa(top.next))
		}
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *Reader) emit(leaf Segment, value string) {
	r.pending = append(r.pending, Property{Path: r.path(&leaf), Value: value})
}

// path joins the open containers, plus leaf if given.
func (r *Reader) path(leaf *Segment) string {
	var b strings.Builder
	for i, f := range r.stack {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(f.seg.String())
	}
	if leaf != nil {
		if len(r.stack) > 0 {
			b.WriteByte('.')
		}
		b.WriteString(leaf.String())
	}
	return b.String()
}
