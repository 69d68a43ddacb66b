package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/ddlschema/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range s.Tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)
	f.formatColumns(table.Columns)
	f.formatReferences(table)
	return nil
}

func (f *MarkdownFormatter) formatColumns(columns []schema.Column) {
	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	if len(columns) == 0 {
		_, _ = fmt.Fprintln(f.writer, "_none_")
		_, _ = fmt.Fprintln(f.writer)
		return
	}

	for _, col := range columns {
		typeStr := col.DataType
		if typeStr == "" {
			typeStr = "_unknown_"
		}

		if len(col.Attributes) > 0 {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, typeStr, strings.Join(col.Attributes, " "))
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, typeStr)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatReferences(table schema.Table) {
	refs := table.References()
	if len(refs) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### References")
	_, _ = fmt.Fprintln(f.writer)
	for _, col := range refs {
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s\n", col.Name, col.Reference.Table, col.Reference.Column)
	}
	_, _ = fmt.Fprintln(f.writer)
}
