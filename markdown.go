package proptext

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

var markdownHeader = []string{"Path", "Value"}

func writeMarkdown(w io.Writer, props []Property) error {
	if len(props) == 0 {
		return nil
	}
	rows := make([][]string, len(props))
	for i, p := range props {
		rows[i] = []string{escapeCell(p.Path), escapeCell(p.Value)}
	}

	// Minimum 3 so the separator row stays valid.
	widths := make([]int, len(markdownHeader))
	for i, col := range markdownHeader {
		widths[i] = max(3, runewidth.StringWidth(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	if err := writeMarkdownRow(w, markdownHeader, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		padded[i] = runewidth.FillRight(cells[i], width)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
