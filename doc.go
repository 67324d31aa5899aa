// Package proptext converts flat, dot-path properties to indented text and
// back.
//
// A [Property] is a path such as "spec.containers.0.name" with a string
// value. Path segments made only of digits are list indices; everything else
// is a name. The text form nests one indentation unit per segment, renders
// names as "key: value" and list items as "- value":
//
//	spec:
//	  containers:
//	    - name: front-end
//	      image: nginx
//	    - name: rss-reader
//
// # Writing
//
// [Writer] consumes properties in order and keeps a stack of open ancestors,
// so a shared prefix is opened once no matter how many leaves sit below it.
// The writer does not sort. Properties sharing a prefix must be contiguous
// and list indices must ascend numerically; [Sort] establishes that order.
// [WithValidation] turns violations into [ErrUnorderedInput]:
//
//	w := proptext.NewWriter(os.Stdout, proptext.WithValidation())
//	err := w.Write(props...)
//
// [Writer.Append] writes a single line with no bookkeeping.
//
// # Reading
//
// [Reader] is the inverse. [Reader.All] is a lazy, forward-only stream; each
// property is produced only when requested, so stopping early never reads
// the rest of the input:
//
//	r := proptext.NewReader(f)
//	defer r.Close()
//	for p, err := range r.All() {
//		...
//	}
//
// List items are numbered by position. A "key:" or "-" line with nothing
// nested beneath it yields an empty value.
//
// # Escaping
//
// Keys and bare list values escape backslash and colon with a backslash, as
// well as a leading dash, space or tab. Values after "key: " are written as is;
// only the first unescaped colon on a line separates key from value. Values
// cannot span lines.
//
// # Formats
//
// [Write], [WriteIter], and [Marshal] render a property sequence as [Text],
// [Properties], [YAML], [ENV], [Markdown], a bordered [Table], [CSV], or [TSV].
// [Decode] and [Unmarshal] read [Text], [Properties], [YAML], [CSV], and [TSV].
// Use [ParseFormat] to turn a flag value into a [Format].
//
// # List lengths
//
// With [WithListLength] the text reader reports each list's item count as a
// "<list>.length" property once the list closes, and the text writer skips
// such properties, so the pair round-trips:
//
//	a:
//	  - x
//	  - y
//
// reads as a.0=x, a.1=y, a.length=2.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrMalformedPath] — empty path or empty segment
//   - [ErrInvalidOrdering] — a name and an index at the same position
//   - [ErrUnorderedInput] — writer input out of order (validation only)
//   - [ErrMultilineValue] — a value with a line break
//   - [ErrReopenedItem] — children for a list item already written as a value
//   - [ErrFormat] — an unparseable line, as a [*FormatError]
//   - [ErrAmbiguousIndent] — a line nested too deep, as a [*AmbiguousIndentError]
//   - [ErrUnsupportedFormat] — unknown format name
package proptext
