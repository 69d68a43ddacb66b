// Package parser turns a SQL DDL script into a schema of tables, columns and
// foreign key references.
//
// Parsing is a fixed pipeline: Normalize, Split, then an Assembler that runs
// every CREATE TABLE, then every CREATE VIEW, then every ALTER TABLE. The
// extractors rely on lightweight pattern matching rather than a SQL grammar,
// so expressions they cannot read are skipped instead of rejected.
package parser

import (
	"log/slog"

	"github.com/tordrt/ddlschema/internal/logger"
	"github.com/tordrt/ddlschema/internal/schema"
)

// Options configures a parse
type Options struct {
	// Strict makes the first malformed statement fail the whole parse.
	// By default malformed statements are skipped and listed in Result.Skipped.
	Strict bool

	// Logger receives skip warnings and stage debug output.
	// Defaults to the global logger.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Get()
}

// Result is the outcome of a parse
type Result struct {
	Schema  *schema.Schema
	Skipped []*MalformedStatementError
}

// Parse normalizes, splits and assembles script. The same script always
// produces the same result.
func Parse(script string, opts Options) (*Result, error) {
	statements := Split(Normalize(script))
	return NewAssembler(opts).Assemble(statements)
}
