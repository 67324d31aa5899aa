package proptext

import (
	"fmt"
	"io"
	"strings"
)

func writeENV(w io.Writer, props []Property) error {
	for _, p := range props {
		if err := writeENVLine(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeENVLine(w io.Writer, p Property) error {
	if strings.ContainsAny(p.Value, " \t\r\n\"'$#`\\") {
		_, err := fmt.Fprintf(w, "%s=%q\n", envName(p.Path), p.Value)
		return err
	}
	_, err := fmt.Fprintf(w, "%s=%s\n", envName(p.Path), p.Value)
	return err
}

// envName maps a path to an environment variable name: letters are
// upper-cased, digits kept, everything else becomes an underscore.
func envName(path string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, path)
}
