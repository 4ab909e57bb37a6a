package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Table is a tabular query result with every cell rendered as text
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// Truncated is set when the row cap cut the result short
	Truncated bool `json:"truncated,omitempty"`
}

// Markdown renders the table as a pipe table with a leading row index,
// numeric columns right-aligned. A truncated table ends with a note giving
// the number of rows shown.
func (t *Table) Markdown() string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}
	out := t.pipeTable()
	if t.Truncated {
		out += fmt.Sprintf("\n(first %d rows shown)", len(t.Rows))
	}
	return out
}

func (t *Table) pipeTable() string {
	header := append([]string{""}, t.Columns...)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(header))
		cells[0] = strconv.Itoa(i)
		for j := range t.Columns {
			if j < len(row) {
				cells[j+1] = escapeCell(row[j])
			}
		}
		rows[i] = cells
	}

	numeric := make([]bool, len(header))
	widths := make([]int, len(header))
	for j := range header {
		numeric[j] = j == 0 || t.isNumericColumn(j-1)
		widths[j] = utf8.RuneCountInString(header[j])
		for _, row := range rows {
			if n := utf8.RuneCountInString(row[j]); n > widths[j] {
				widths[j] = n
			}
		}
		if widths[j] < 3 {
			widths[j] = 3
		}
	}

	var sb strings.Builder
	writeRow(&sb, header, widths, numeric)

	sb.WriteString("|")
	for j, w := range widths {
		if numeric[j] {
			sb.WriteString(strings.Repeat("-", w+1) + ":|")
		} else {
			sb.WriteString(":" + strings.Repeat("-", w+1) + "|")
		}
	}
	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(&sb, row, widths, numeric)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (t *Table) isNumericColumn(col int) bool {
	seen := false
	for _, row := range t.Rows {
		if col >= len(row) || row[col] == "" || row[col] == nullCell {
			continue
		}
		if _, err := strconv.ParseFloat(row[col], 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func writeRow(sb *strings.Builder, cells []string, widths []int, rightAlign []bool) {
	sb.WriteString("|")
	for j, cell := range cells {
		pad := strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell))
		if rightAlign[j] {
			sb.WriteString(" " + pad + cell + " |")
		} else {
			sb.WriteString(" " + cell + pad + " |")
		}
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
