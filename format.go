package proptext

import (
	"bytes"
	"fmt"
	"io"
)

// Format names a rendering of a property sequence.
type Format string

const (
	Text       Format = "text"
	Properties Format = "properties"
	YAML       Format = "yaml"
	ENV        Format = "env"
	Markdown   Format = "markdown"
	Table      Format = "table"
	CSV        Format = "csv"
	TSV        Format = "tsv"
)

var formats = []Format{Text, Properties, YAML, ENV, Markdown, Table, CSV, TSV}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// CanDecode reports whether [Decode] accepts f.
func CanDecode(f Format) bool {
	switch f {
	case Text, Properties, YAML, CSV, TSV:
		return true
	default:
		return false
	}
}

// Write renders props in format f to w. Text expects props in the order
// described on [Writer].
func Write(w io.Writer, f Format, props []Property, opts ...Option) error {
	switch f {
	case Text:
		return NewWriter(w, opts...).Write(props...)
	case Properties:
		return writeProperties(w, props)
	case YAML:
		return writeYAML(w, props, newConfig(opts))
	case ENV:
		return writeENV(w, props)
	case Markdown:
		return writeMarkdown(w, props)
	case Table:
		return writeTable(w, props, newConfig(opts))
	case CSV:
		return writeCSV(w, props, ',')
	case TSV:
		return writeCSV(w, props, '\t')
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal renders props in format f and returns the bytes.
func Marshal(f Format, props []Property, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, props, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a property sequence in format f from r.
func Decode(r io.Reader, f Format, opts ...Option) ([]Property, error) {
	switch f {
	case Text:
		return NewReader(r, opts...).ReadAll()
	case Properties:
		return readProperties(r)
	case YAML:
		return readYAML(r)
	case CSV:
		return readCSV(r, ',')
	case TSV:
		return readCSV(r, '\t')
	default:
		return nil, fmt.Errorf("%w: cannot decode %q", ErrUnsupportedFormat, f)
	}
}

// Unmarshal decodes data in format f.
func Unmarshal(f Format, data []byte, opts ...Option) ([]Property, error) {
	return Decode(bytes.NewReader(data), f, opts...)
}
