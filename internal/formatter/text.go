package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/ddlschema/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single table
func (f *TextFormatter) FormatTable(table schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s\n", table.Name)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatTextColumn(col))
	}

	refs := table.References()
	if len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCES:")
		for _, col := range refs {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s\n", col.Name, col.Reference.Table, col.Reference.Column)
		}
	}

	return nil
}

func formatTextColumn(col schema.Column) string {
	parts := []string{col.Name + ":"}

	if col.DataType != "" {
		parts = append(parts, col.DataType)
	} else {
		parts = append(parts, "?")
	}

	if len(col.Attributes) > 0 {
		parts = append(parts, strings.Join(col.Attributes, " "))
	}

	return strings.Join(parts, " ")
}
