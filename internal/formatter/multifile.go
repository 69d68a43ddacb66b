package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/ddlschema/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
	formatJSON     = "json"
)

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text", "markdown" or "json"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files. A table name declared twice
// maps to one file, written with the later declaration.
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	// Table names come from script text; refuse any that would leave OutputDir.
	for _, table := range s.Tables {
		if err := checkTableFileName(table.Name); err != nil {
			return err
		}
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write overview file
	if err := f.writeOverview(s); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	// Write per-table files
	for _, table := range s.Tables {
		if err := f.writeTableFile(table, s); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(s *schema.Schema) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case formatMarkdown:
		return f.writeMarkdownOverview(file, s)
	case formatJSON:
		return NewJSONFormatter(file).Format(s)
	default:
		return f.writeTextOverview(file, s)
	}
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, s *schema.Schema) error {
	_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
	_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(w, "## Tables\n\n")

	for _, table := range sortedTables(s) {
		_, _ = fmt.Fprintf(w, "- **%s**", table.Name)

		// Show outgoing references
		if targets := referencedTables(table); len(targets) > 0 {
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	return nil
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, s *schema.Schema) error {
	_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, table := range sortedTables(s) {
		_, _ = fmt.Fprintf(w, "%s", table.Name)
		if targets := referencedTables(table); len(targets) > 0 {
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ","))
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	return nil
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table schema.Table, s *schema.Schema) error {
	filename := filepath.Join(f.OutputDir, table.Name+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case formatJSON:
		return NewJSONFormatter(file).FormatTable(table)
	case formatMarkdown:
		if err := NewMarkdownFormatter(file).FormatTable(table); err != nil {
			return err
		}
		incoming := FindIncomingReferences(table.Name, s)
		if len(incoming) > 0 {
			_, _ = fmt.Fprintf(file, "### Referenced by\n\n")
			for _, ref := range incoming {
				_, _ = fmt.Fprintf(file, "- %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
			}
			_, _ = fmt.Fprintln(file)
		}
		return nil
	default:
		if err := NewTextFormatter(file).FormatTable(table); err != nil {
			return err
		}
		incoming := FindIncomingReferences(table.Name, s)
		if len(incoming) > 0 {
			_, _ = fmt.Fprintln(file)
			_, _ = fmt.Fprintln(file, "  REFERENCED BY:")
			for _, ref := range incoming {
				_, _ = fmt.Fprintf(file, "    %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
			}
		}
		return nil
	}
}

// checkTableFileName rejects table names that are not a single local path
// element, such as "../x", "a/b" or an absolute path
func checkTableFileName(name string) error {
	if name == "" || !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("table name %q cannot be used as a file name", name)
	}
	return nil
}

// IncomingReference represents a column elsewhere that points at this table
type IncomingReference struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// FindIncomingReferences finds all columns referencing tableName
func FindIncomingReferences(tableName string, s *schema.Schema) []IncomingReference {
	var incoming []IncomingReference

	for _, table := range s.Tables {
		for _, col := range table.References() {
			if col.Reference.Table == tableName {
				incoming = append(incoming, IncomingReference{
					SourceTable:  table.Name,
					SourceColumn: col.Name,
					TargetTable:  col.Reference.Table,
					TargetColumn: col.Reference.Column,
				})
			}
		}
	}

	return incoming
}

// referencedTables lists the distinct tables a table refers to, in column order
func referencedTables(table schema.Table) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, col := range table.References() {
		if !seen[col.Reference.Table] {
			seen[col.Reference.Table] = true
			targets = append(targets, col.Reference.Table)
		}
	}
	return targets
}

func sortedTables(s *schema.Schema) []schema.Table {
	sorted := make([]schema.Table, len(s.Tables))
	copy(sorted, s.Tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case formatMarkdown:
		return ".md"
	case formatJSON:
		return ".json"
	default:
		return ".txt"
	}
}
