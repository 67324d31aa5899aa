package proptext

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Property is one flattened entry: a dot-separated path and its scalar value.
type Property struct {
	Path  string
	Value string
}

// String renders the property as path=value.
func (p Property) String() string { return p.Path + "=" + p.Value }

// Segments splits the property path. See [SplitPath].
func (p Property) Segments() ([]Segment, error) { return SplitPath(p.Path) }

// SegmentKind tags a path segment as a name or a list index.
type SegmentKind int

const (
	NameSegment SegmentKind = iota
	IndexSegment
)

func (k SegmentKind) String() string {
	switch k {
	case NameSegment:
		return "name"
	case IndexSegment:
		return "index"
	default:
		return "SegmentKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Segment is one dot-delimited path component. Name is set for
// [NameSegment], Index for [IndexSegment].
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Name returns a name segment.
func Name(s string) Segment { return Segment{Kind: NameSegment, Name: s} }

// Index returns an index segment.
func Index(i int) Segment { return Segment{Kind: IndexSegment, Index: i} }

func (s Segment) String() string {
	if s.Kind == IndexSegment {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// SplitPath tokenizes path on '.'. A piece made only of digits is an index;
// anything else is a name. Empty paths, empty pieces, and indices with
// leading zeros are rejected with [ErrMalformedPath].
func SplitPath(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}
	segs := make([]Segment, 0, strings.Count(path, ".")+1)
	for piece := range strings.SplitSeq(path, ".") {
		seg, err := parseSegment(piece)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrMalformedPath, path, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSegment(piece string) (Segment, error) {
	if piece == "" {
		return Segment{}, fmt.Errorf("empty segment")
	}
	if !isDigits(piece) {
		return Name(piece), nil
	}
	if len(piece) > 1 && piece[0] == '0' {
		return Segment{}, fmt.Errorf("index %q has leading zeros", piece)
	}
	i, err := strconv.Atoi(piece)
	if err != nil {
		return Segment{}, fmt.Errorf("index %q out of range", piece)
	}
	return Index(i), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// JoinPath is the inverse of [SplitPath].
func JoinPath(segs ...Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Compare orders two properties by path, segment by segment. Names compare
// by code point, indices numerically, and a path sorts before any path it is
// a prefix of. A name and an index at the same position cannot be ordered
// and yield [ErrInvalidOrdering]. Values are not compared.
func Compare(a, b Property) (int, error) {
	as, err := a.Segments()
	if err != nil {
		return 0, err
	}
	bs, err := b.Segments()
	if err != nil {
		return 0, err
	}
	return compareSegments(as, bs)
}

func compareSegments(as, bs []Segment) (int, error) {
	for i := range min(len(as), len(bs)) {
		x, y := as[i], bs[i]
		if x.Kind != y.Kind {
			return 0, fmt.Errorf("%w: %s %q and %s %q at position %d", ErrInvalidOrdering, x.Kind, x, y.Kind, y, i)
		}
		var c int
		switch x.Kind {
		case NameSegment:
			c = strings.Compare(x.Name, y.Name)
		case IndexSegment:
			c = cmp.Compare(x.Index, y.Index)
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(as), len(bs)), nil
}

// Sort orders props in place with [Compare], keeping equal paths in their
// original order. On error the slice order is unspecified.
func Sort(props []Property) error {
	keyed := make([][]Segment, len(props))
	for i, p := range props {
		segs, err := p.Segments()
		if err != nil {
			return err
		}
		keyed[i] = segs
	}
	idx := make([]int, len(props))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	slices.SortStableFunc(idx, func(x, y int) int {
		c, err := compareSegments(keyed[x], keyed[y])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return sortErr
	}
	sorted := make([]Property, len(props))
	for i, j := range idx {
		sorted[i] = props[j]
	}
	copy(props, sorted)
	return nil
}
