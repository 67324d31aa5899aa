package proptext

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var csvHeader = []string{"path", "value"}

func writeCSV(w io.Writer, props []Property, comma rune) error {
	if len(props) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range props {
		if err := cw.Write([]string{p.Path, p.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV expects the header written by writeCSV followed by one
// path,value record per property.
func readCSV(r io.Reader, comma rune) ([]Property, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = len(csvHeader)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, &FormatError{
			Line:    1,
			Content: strings.Join(header, string(comma)),
			Reason:  "expected a path,value header",
		}
	}

	var props []Property
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return props, nil
		}
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Path: rec[0], Value: rec[1]})
	}
}
