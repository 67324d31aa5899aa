package proptext_test

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/proptext"
)

// --- Helpers ---

type errWriter struct{}

func (e *errWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

// failAfterN fails on the (n+1)th call to Write.
type failAfterN struct {
	n     int
	calls int
}

func (f *failAfterN) Write(p []byte) (int, error) {
	if f.calls >= f.n {
		return 0, errWriteFailed
	}
	f.calls++
	return len(p), nil
}

var errWriteFailed = errors.New("write failed")

func props(kv ...string) []proptext.Property {
	out := make([]proptext.Property, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, proptext.Property{Path: kv[i], Value: kv[i+1]})
	}
	return out
}

func writeText(t *testing.T, in []proptext.Property, opts ...proptext.Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, proptext.NewWriter(&buf, opts...).Write(in...))
	return buf.String()
}

// ============================================================
// Tests
// ============================================================

func TestWriterExamples(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   []proptext.Property
		want string
	}{
		"list": {
			in:   props("a.0", "x", "a.1", "y"),
			want: "a:\n  - x\n  - y\n",
		},
		"map": {
			in:   props("a.b", "1", "a.c", "2"),
			want: "a:\n  b: 1\n  c: 2\n",
		},
		"mixed depth": {
			in:   props("x.y.z", "v1", "x.y.w", "v2", "x.k", "v3"),
			want: "x:\n  y:\n    z: v1\n    w: v2\n  k: v3\n",
		},
		"root scalars": {
			in:   props("apiVersion", "v1", "kind", "Pod"),
			want: "apiVersion: v1\nkind: Pod\n",
		},
		"list of maps": {
			in: props(
				"spec.containers.0.name", "front-end",
				"spec.containers.0.image", "nginx",
				"spec.containers.0.ports.0.containerPort", "80",
				"spec.containers.1.name", "rss-reader",
			),
			want: "spec:\n" +
				"  containers:\n" +
				"    - name: front-end\n" +
				"      image: nginx\n" +
				"      ports:\n" +
				"        - containerPort: 80\n" +
				"    - name: rss-reader\n",
		},
		"nested lists": {
			in:   props("m.0.0", "a", "m.0.1", "b", "m.1.0", "c"),
			want: "m:\n  - - a\n    - b\n  - - c\n",
		},
		"root list": {
			in:   props("0", "a", "1.k", "v"),
			want: "- a\n- k: v\n",
		},
		"empty values": {
			in:   props("a", "", "b.0", "", "c", "x"),
			want: "a:\nb:\n  -\nc: x\n",
		},
		"escaped keys and items": {
			in:   props("url:port", "8080", "-flag", "on", "l.0", "a:b", "l.1", "-x"),
			want: "url\\:port: 8080\n\\-flag: on\nl:\n  - a\\:b\n  - \\-x\n",
		},
		"colon in map value is raw": {
			in:   props("image", "nickchase/rss-php-nginx:v1"),
			want: "image: nickchase/rss-php-nginx:v1\n",
		},
		"empty input": {
			in:   nil,
			want: "",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, writeText(t, tt.in))
		})
	}
}

func TestWriterIndent(t *testing.T) {
	t.Parallel()
	got := writeText(t, props("a.b.0", "x"), proptext.WithIndent(4))
	assert.Equal(t, "a:\n    b:\n        - x\n", got)
}

func TestWriterDeterministic(t *testing.T) {
	t.Parallel()
	in := props("a.0.b", "1", "a.0.c", "2", "a.1.b", "3", "z", "4")
	assert.Equal(t, writeText(t, in), writeText(t, in))
}

func TestWriterSharedPrefixOpenedOnce(t *testing.T) {
	t.Parallel()
	got := writeText(t, props("x.y.z", "v1", "x.y.w", "v2", "x.k", "v3"))
	assert.Equal(t, 1, strings.Count(got, "x:\n"))
	assert.Equal(t, 1, strings.Count(got, "y:\n"))
}

func TestWriterUnorderedWithoutValidation(t *testing.T) {
	t.Parallel()
	// The ancestor is reopened rather than rejected.
	got := writeText(t, props("a.b", "1", "c", "2", "a.d", "3"))
	assert.Equal(t, "a:\n  b: 1\nc: 2\na:\n  d: 3\n", got)
}

func TestWriterValidation(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in      []proptext.Property
		wantErr error
	}{
		"descending names": {in: props("b", "1", "a", "2"), wantErr: proptext.ErrUnorderedInput},
		"duplicate path":   {in: props("a", "1", "a", "2"), wantErr: proptext.ErrUnorderedInput},
		"lexical indices":  {in: props("a.0", "1", "a.1", "1", "a.10", "1", "a.2", "2"), wantErr: proptext.ErrUnorderedInput},
		"mixed kinds":      {in: props("a.0", "1", "a.b", "2"), wantErr: proptext.ErrInvalidOrdering},
		"sparse indices":   {in: props("a.0", "1", "a.2", "2"), wantErr: proptext.ErrUnorderedInput},
		"list not from 0":  {in: props("a.1", "1"), wantErr: proptext.ErrUnorderedInput},
		"nested not from 0": {
			in:      props("a.0.0", "1", "a.1.1", "2"),
			wantErr: proptext.ErrUnorderedInput,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := proptext.NewWriter(&buf, proptext.WithValidation()).Write(tt.in...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWriterValidationAccepts(t *testing.T) {
	t.Parallel()
	in := props("a.0.0", "1", "a.0.1", "2", "a.1.0", "3", "a.2", "4", "b", "5", "b.c", "6")
	var buf bytes.Buffer
	assert.NoError(t, proptext.NewWriter(&buf, proptext.WithValidation()).Write(in...))
}

func TestWriterReopenedItem(t *testing.T) {
	t.Parallel()
	tests := map[string][]proptext.Property{
		"value then children":       props("a.0", "x", "a.0.b", "y"),
		"empty value then children": props("a.0", "", "a.0.b", "y"),
		"root item":                 props("0", "x", "0.b", "y"),
		"nested item":               props("a.0.0", "x", "a.0.0.0", "y"),
		"children then value":       props("a.0.b", "y", "a.0", "x"),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, opts := range [][]proptext.Option{nil, {proptext.WithValidation()}} {
				var buf bytes.Buffer
				err := proptext.NewWriter(&buf, opts...).Write(in...)
				assert.ErrorIs(t, err, proptext.ErrReopenedItem)
			}
			_, err := proptext.Marshal(proptext.YAML, in)
			assert.ErrorIs(t, err, proptext.ErrReopenedItem)
		})
	}
}

func TestWriterRejectsBeforeWriting(t *testing.T) {
	t.Parallel()
	tests := map[string]proptext.Property{
		"value": {Path: "a.b.c", Value: "x\ny"},
		"key":   {Path: "a.b\nc.d", Value: "x"},
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := proptext.NewWriter(&buf).WriteProperty(p)
			assert.ErrorIs(t, err, proptext.ErrMultilineValue)
			assert.Empty(t, buf.String())
		})
	}
}

func TestWriterListLength(t *testing.T) {
	t.Parallel()
	in := props(
		"a.0", "x", "a.1", "y", "a.length", "2",
		"b.0.0", "p", "b.0.length", "1", "b.length", "1",
		"c", "z",
	)
	for _, opts := range [][]proptext.Option{
		{proptext.WithListLength()},
		{proptext.WithListLength(), proptext.WithValidation()},
	} {
		var buf bytes.Buffer
		require.NoError(t, proptext.NewWriter(&buf, opts...).Write(in...))
		assert.Equal(t, "a:\n  - x\n  - y\nb:\n  - - p\nc: z\n", buf.String())
	}

	// A "length" key in a mapping is ordinary data.
	var buf bytes.Buffer
	require.NoError(t, proptext.NewWriter(&buf, proptext.WithListLength()).Write(props("m.length", "3")...))
	assert.Equal(t, "m:\n  length: 3\n", buf.String())
}

func TestWriterErrors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := proptext.NewWriter(&buf)

	assert.ErrorIs(t, w.WriteProperty(proptext.Property{Path: "a..b"}), proptext.ErrMalformedPath)
	assert.ErrorIs(t, w.WriteProperty(proptext.Property{Path: "a", Value: "x\ny"}), proptext.ErrMultilineValue)
	assert.ErrorIs(t, w.WriteProperty(proptext.Property{Path: "a\rb", Value: "x"}), proptext.ErrMultilineValue)
	assert.ErrorIs(t, w.Write(proptext.Property{Path: "a", Value: "1"}, proptext.Property{Path: ""}), proptext.ErrMalformedPath)
}

func TestWriterSinkErrors(t *testing.T) {
	t.Parallel()
	err := proptext.NewWriter(&errWriter{}).Write(props("a", "1")...)
	assert.ErrorIs(t, err, errWriteFailed)

	// Header succeeds, leaf fails.
	err = proptext.NewWriter(&failAfterN{n: 1}).Write(props("a.b", "1")...)
	assert.ErrorIs(t, err, errWriteFailed)

	// Header succeeds, list item fails.
	err = proptext.NewWriter(&failAfterN{n: 1}).Write(props("a.0", "1")...)
	assert.ErrorIs(t, err, errWriteFailed)
}

func TestWriterReset(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := proptext.NewWriter(&buf, proptext.WithValidation())
	require.NoError(t, w.Write(props("a.b", "1")...))
	w.Reset()
	require.NoError(t, w.Write(props("a.b", "2")...))
	assert.Equal(t, "a:\n  b: 1\na:\n  b: 2\n", buf.String())
}

func TestWriterWriteSeq(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := proptext.NewWriter(&buf).WriteSeq(slices.Values(props("a.0", "x", "a.1", "y")))
	require.NoError(t, err)
	assert.Equal(t, "a:\n  - x\n  - y\n", buf.String())

	var stopped int
	seq := func(yield func(proptext.Property) bool) {
		for _, p := range props("a", "1", "b..c", "2", "d", "3") {
			if !yield(p) {
				return
			}
			stopped++
		}
	}
	err = proptext.NewWriter(&bytes.Buffer{}).WriteSeq(seq)
	assert.ErrorIs(t, err, proptext.ErrMalformedPath)
	assert.Equal(t, 1, stopped)
}

func TestWriterAppend(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		depth  int
		key    string
		value  string
		isList bool
		want   string
	}{
		"key value":         {depth: 0, key: "simple-key", value: "simple-value", want: "simple-key: simple-value\n"},
		"header":            {depth: 0, key: "simple-key", want: "simple-key:\n"},
		"list value":        {depth: 0, value: "simple-value", isList: true, want: "- simple-value\n"},
		"list key value":    {depth: 0, key: "list-key", value: "list-value", isList: true, want: "- list-key: list-value\n"},
		"indented":          {depth: 2, key: "two-tab-key", value: "two-tab-value", want: "    two-tab-key: two-tab-value\n"},
		"indented list":     {depth: 3, value: "v", isList: true, want: "      - v\n"},
		"empty list item":   {depth: 1, isList: true, want: "  -\n"},
		"list key no value": {depth: 1, key: "k", isList: true, want: "  - k:\n"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, proptext.NewWriter(&buf).Append(tt.depth, tt.key, tt.value, tt.isList))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriterAppendErrors(t *testing.T) {
	t.Parallel()
	w := proptext.NewWriter(&bytes.Buffer{})
	assert.Error(t, w.Append(-1, "k", "v", false))
	assert.ErrorIs(t, w.Append(0, "", "v", false), proptext.ErrMalformedPath)
	assert.ErrorIs(t, w.Append(0, "k", "a\nb", false), proptext.ErrMultilineValue)
	assert.ErrorIs(t, proptext.NewWriter(&errWriter{}).Append(0, "k", "v", false), errWriteFailed)
}

func TestWithIndentPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { proptext.WithIndent(0) })
	assert.Panics(t, func() { proptext.WithLogger(nil) })
}
