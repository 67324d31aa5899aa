package proptext

import (
	"fmt"
	"io"
	"iter"
)

// WriteIter renders properties from seq as they arrive. Text and ENV are
// written one property at a time; the other formats need the whole sequence
// and collect it first.
func WriteIter(w io.Writer, f Format, seq iter.Seq[Property], opts ...Option) error {
	switch f {
	case Text:
		return NewWriter(w, opts...).WriteSeq(seq)
	case ENV:
		return streamENV(w, seq)
	case Properties, YAML, Markdown, Table, CSV, TSV:
		return streamCollect(w, f, seq, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteChan renders properties received from ch.
// It is a thin wrapper around [WriteIter].
func WriteChan(w io.Writer, f Format, ch <-chan Property, opts ...Option) error {
	return WriteIter(w, f, chanToIter(ch), opts...)
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func streamCollect(w io.Writer, f Format, seq iter.Seq[Property], opts []Option) error {
	var props []Property
	seq(func(p Property) bool {
		props = append(props, p)
		return true
	})
	if len(props) == 0 {
		return nil
	}
	return Write(w, f, props, opts...)
}

func streamENV(w io.Writer, seq iter.Seq[Property]) error {
	var streamErr error
	seq(func(p Property) bool {
		streamErr = writeENVLine(w, p)
		return streamErr == nil
	})
	return streamErr
}
