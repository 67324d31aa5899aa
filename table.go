package proptext

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls the border characters of the [Table] format.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

var tableHeader = []string{"PATH", "VALUE"}

func writeTable(w io.Writer, props []Property, cfg config) error {
	if len(props) == 0 {
		return nil
	}
	rows := make([][]string, len(props))
	for i, p := range props {
		rows[i] = []string{p.Path, p.Value}
	}
	widths := computeWidths(tableHeader, rows)

	// Only the value column wraps.
	if cfg.wrap > 0 && widths[1] > cfg.wrap {
		widths[1] = max(cfg.wrap, runewidth.StringWidth(tableHeader[1]))
	}

	if cfg.border == BorderNone {
		return renderPlainTable(w, rows, widths)
	}
	bc, ok := borderSets[cfg.border]
	if !ok {
		bc = borderSets[BorderRounded]
	}
	return renderBorderedTable(w, rows, widths, bc)
}

func computeWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

// --- Cell wrapping ---

func wrapCell(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		if line == "" {
			// Safety: a rune wider than the column still has to advance.
			r := []rune(s)
			line = string(r[0])
		}
		lines = append(lines, line)
		s = s[len(line):]
	}
	return lines
}

func wrapRow(cells []string, widths []int) [][]string {
	wrapped := make([][]string, len(widths))
	for i, width := range widths {
		wrapped[i] = wrapCell(cells[i], width)
	}
	return wrapped
}

func maxLines(wrapped [][]string) int {
	n := 1
	for _, lines := range wrapped {
		n = max(n, len(lines))
	}
	return n
}

// --- Plain table (BorderNone) ---

func renderPlainTable(w io.Writer, rows [][]string, widths []int) error {
	if err := writePlainRow(w, tableHeader, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "  ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writePlainRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writePlainRow(w io.Writer, cells []string, widths []int) error {
	wrapped := wrapRow(cells, widths)
	for line := range maxLines(wrapped) {
		parts := make([]string, len(widths))
		for i, width := range widths {
			parts[i] = alignCell(cellLine(wrapped[i], line), width)
		}
		text := strings.TrimRight(strings.Join(parts, "  "), " ")
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return nil
}

// --- Bordered table ---

func renderBorderedTable(w io.Writer, rows [][]string, widths []int, bc borderChars) error {
	if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
		return err
	}
	if err := drawBorderedRow(w, tableHeader, widths, bc.vertical); err != nil {
		return err
	}
	if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
		return err
	}
	for _, row := range rows {
		if err := drawBorderedRow(w, row, widths, bc.vertical); err != nil {
			return err
		}
	}
	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawBorderedRow(w io.Writer, cells []string, widths []int, vert string) error {
	wrapped := wrapRow(cells, widths)
	for line := range maxLines(wrapped) {
		var sb strings.Builder
		sb.WriteString(vert)
		for i, width := range widths {
			sb.WriteString(" ")
			sb.WriteString(alignCell(cellLine(wrapped[i], line), width))
			sb.WriteString(" ")
			sb.WriteString(vert)
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func cellLine(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func alignCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
