package parser

import (
	"errors"
	"log/slog"

	"github.com/tordrt/ddlschema/internal/schema"
)

// stage consumes every fragment of one statement kind. Stages run strictly in
// the order of assemblyStages: foreign keys can only be resolved once every
// table and view exists.
type stage struct {
	kind  StatementKind
	apply func(a *Assembler, f Fragment) error
}

var assemblyStages = []stage{
	{kind: KindCreateTable, apply: (*Assembler).applyCreateTable},
	{kind: KindCreateView, apply: (*Assembler).applyCreateView},
	{kind: KindAlterTable, apply: (*Assembler).applyAlterTable},
}

// Assembler builds a schema from classified statements
type Assembler struct {
	strict  bool
	logger  *slog.Logger
	schema  *schema.Schema
	skipped []*MalformedStatementError
}

// NewAssembler creates an assembler configured by opts
func NewAssembler(opts Options) *Assembler {
	return &Assembler{
		strict: opts.Strict,
		logger: opts.logger(),
	}
}

// Assemble runs every stage over st and returns the resulting schema. In
// strict mode the first malformed fragment aborts assembly; otherwise it is
// left out and reported in Result.Skipped.
func (a *Assembler) Assemble(st Statements) (*Result, error) {
	a.schema = &schema.Schema{}
	a.skipped = nil

	for _, s := range assemblyStages {
		fragments := st.Of(s.kind)
		a.logger.Debug("running assembly stage", "kind", s.kind.String(), "statements", len(fragments))

		for _, f := range fragments {
			err := s.apply(a, f)
			if err == nil {
				continue
			}

			var mErr *MalformedStatementError
			if !errors.As(err, &mErr) {
				return nil, err
			}
			mErr.Index = f.Index
			if a.strict {
				return nil, mErr
			}
			a.logger.Warn("skipping malformed statement", "index", f.Index, "kind", s.kind.String(), "reason", mErr.Reason)
			a.skipped = append(a.skipped, mErr)
		}
	}

	return &Result{Schema: a.schema, Skipped: a.skipped}, nil
}

func (a *Assembler) applyCreateTable(f Fragment) error {
	table, err := ParseCreateTable(f.Text)
	if err != nil {
		return err
	}
	a.schema.Tables = append(a.schema.Tables, *table)
	return nil
}

func (a *Assembler) applyCreateView(f Fragment) error {
	view, err := ParseCreateView(f.Text)
	if err != nil {
		return err
	}
	a.schema.Tables = append(a.schema.Tables, *view)
	return nil
}

// applyAlterTable patches foreign key references onto already assembled
// columns. Unknown tables and columns are ignored.
func (a *Assembler) applyAlterTable(f Fragment) error {
	stmt, err := ParseAlterTable(f.Text)
	if err != nil {
		return err
	}

	table := a.schema.FindTable(stmt.TableName)
	if table == nil {
		a.logger.Debug("alter targets unknown table", "index", f.Index, "table", stmt.TableName)
		return nil
	}

	for _, alt := range stmt.Alterations {
		if alt.Kind != AddForeignKey || alt.ConcernedColumn == "" {
			continue
		}
		col := table.FindColumn(alt.ConcernedColumn)
		if col == nil {
			a.logger.Debug("foreign key on unknown column", "table", stmt.TableName, "column", alt.ConcernedColumn)
			continue
		}
		col.SetReference(alt.ReferencedTable, alt.ReferencedColumn)
	}
	return nil
}
