package proptext

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const defaultIndent = 2

// Option configures a [Writer], a [Reader], or the [Format] helpers.
// Options that do not apply to the receiver are ignored.
type Option func(*config)

type config struct {
	indent   string
	validate bool
	lenient  bool
	logger   *log.Logger
	border   BorderStyle
	wrap     int

	listLength bool
}

// listLengthKey names the count property of [WithListLength].
const listLengthKey = "length"

func newConfig(opts []Option) config {
	c := config{indent: strings.Repeat(" ", defaultIndent)}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// WithIndent sets the indentation unit to n spaces (default 2).
// Panics if n < 1.
func WithIndent(n int) Option {
	if n < 1 {
		panic("proptext: WithIndent(" + strconv.Itoa(n) + ")")
	}
	return func(c *config) {
		c.indent = strings.Repeat(" ", n)
	}
}

// WithValidation makes the writer reject input that breaks the ordering
// precondition with [ErrUnorderedInput] instead of grouping it however the
// stack diffing resolves it.
func WithValidation() Option {
	return func(c *config) {
		c.validate = true
	}
}

// WithLenient makes the reader skip malformed lines instead of failing.
// Ambiguous indentation still fails.
func WithLenient() Option {
	return func(c *config) {
		c.lenient = true
	}
}

// WithListLength makes the text reader follow each closed list with a
// "<list>.length" property holding its item count, and makes the text writer
// drop those properties again. A root list reports its count as "length".
func WithListLength() Option {
	return func(c *config) {
		c.listLength = true
	}
}

// WithLogger routes diagnostics (such as skipped lines) to l.
// Panics on nil.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("proptext: WithLogger(nil)")
	}
	return func(c *config) {
		c.logger = l
	}
}

// WithBorder sets the border style of the [Table] format (default
// [BorderRounded]).
func WithBorder(b BorderStyle) Option {
	return func(c *config) {
		c.border = b
	}
}

// WithWrap wraps [Table] values wider than n cells onto continuation lines.
// Zero disables wrapping. Panics if n < 0.
func WithWrap(n int) Option {
	if n < 0 {
		panic("proptext: WithWrap(" + strconv.Itoa(n) + ")")
	}
	return func(c *config) {
		c.wrap = n
	}
}
