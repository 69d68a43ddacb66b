// Package formatter renders a parsed schema as text, markdown or JSON, either
// to a single stream or as one file per table.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/ddlschema/internal/schema"
)

// New returns the single-stream formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case formatText:
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'json')", format)
	}
}

// Formatter writes a whole schema to one stream
type Formatter interface {
	Format(s *schema.Schema) error
}
