package proptext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeUnescape(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"plain":          "plain",
		"a:b":            `a\:b`,
		`a\b`:            `a\\b`,
		"-x":             `\-x`,
		"x-y":            "x-y",
		" lead":          `\ lead`,
		"\tlead":         "\\\tlead",
		"trail ":         "trail ",
		"":               "",
		`\:`:             `\\\:`,
		"nickchase:v1-x": `nickchase\:v1-x`,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			var b strings.Builder
			escape(&b, in)
			assert.Equal(t, want, b.String())
			assert.Equal(t, in, unescape(b.String()))
		})
	}
}

func TestSeparator(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, separator("a: b"))
	assert.Equal(t, 4, separator(`a\:b: c`))
	assert.Equal(t, 3, separator(`a\\:b`))
	assert.Equal(t, -1, separator(`a\:b`))
	assert.Equal(t, -1, separator(`trailing\`))
	assert.Equal(t, -1, separator(""))
}

func TestUnescapeTrailingBackslash(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `a\`, unescape(`a\`))
}

func TestCalculateTabs(t *testing.T) {
	t.Parallel()
	w := NewWriter(nil, WithIndent(3))
	var b strings.Builder
	w.calculateTabs(&b, 2)
	assert.Equal(t, "      ", b.String())

	b.Reset()
	w.calculateTabs(&b, 0)
	assert.Empty(t, b.String())
}

func TestEnvName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "SPEC_CONTAINERS_0_NAME", envName("spec.containers.0.name"))
	assert.Equal(t, "A_B_C", envName("a-b:c"))
	assert.Equal(t, "__", envName("日本"))
}

func TestEscapeCell(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `a\|b`, escapeCell("a|b"))
	assert.Equal(t, "plain", escapeCell("plain"))
}

func TestWrapCellWideCharSafety(t *testing.T) {
	t.Parallel()
	// "你" is two columns wide and cannot fit a one-column cell.
	assert.Equal(t, []string{"你", "好"}, wrapCell("你好", 1))
}

func TestWrapCell(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"hi"}, wrapCell("hi", 0))
	assert.Equal(t, []string{"hi"}, wrapCell("hi", 5))
	assert.Equal(t, []string{"Hel", "lo"}, wrapCell("Hello", 3))
}

func TestParseLineDepth(t *testing.T) {
	t.Parallel()
	r := NewReader(strings.NewReader(""), WithIndent(4))
	line, err := r.parseLine("        - - k: v")
	assert.NoError(t, err)
	assert.Equal(t, 2, line.Depth)
	assert.Equal(t, 2, line.Items)
	assert.Equal(t, "k", line.Key)
	assert.Equal(t, "v", line.Value)

	_, err = r.parseLine("  k: v")
	assert.ErrorIs(t, err, ErrFormat)
}
