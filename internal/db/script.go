package db

import (
	"context"
	"fmt"
	"strings"
)

// ScriptReader produces a DDL script from a live database. The script uses
// only the statement forms the parser understands: CREATE TABLE, CREATE VIEW
// and ALTER TABLE ... ADD FOREIGN KEY.
type ScriptReader interface {
	ReadScript(ctx context.Context, tables []string) (string, error)
}

// ColumnDef is one column of a synthesized CREATE TABLE
type ColumnDef struct {
	Name          string
	Type          string
	NotNull       bool
	PrimaryKey    bool
	AutoIncrement bool
}

// ForeignKey is a single-column foreign key
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// ScriptWriter accumulates DDL statements, one per paragraph
type ScriptWriter struct {
	b strings.Builder
}

// Statement appends a statement verbatim, terminating it with ";"
func (w *ScriptWriter) Statement(stmt string) {
	stmt = strings.TrimRight(strings.TrimSpace(stmt), ";")
	if stmt == "" {
		return
	}
	w.b.WriteString(stmt)
	w.b.WriteString(";\n\n")
}

// CreateTable appends a CREATE TABLE statement with one column per line
func (w *ScriptWriter) CreateTable(name string, columns []ColumnDef) {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", name)
	for i, col := range columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  %s %s", col.Name, TypeName(col.Type))
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.NotNull && !col.PrimaryKey {
			b.WriteString(" NOT NULL")
		}
		if col.AutoIncrement {
			b.WriteString(" AUTO_INCREMENT")
		}
	}
	b.WriteString("\n)")
	w.Statement(b.String())
}

// CreateView appends a CREATE VIEW statement over the given SELECT
func (w *ScriptWriter) CreateView(name, selectSQL string) {
	w.Statement(fmt.Sprintf("CREATE VIEW %s AS\n%s", name, strings.TrimSpace(selectSQL)))
}

// AddForeignKey appends an ALTER TABLE ... ADD FOREIGN KEY statement
func (w *ScriptWriter) AddForeignKey(fk ForeignKey) {
	w.Statement(fmt.Sprintf("ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Table, fk.Column, fk.RefTable, fk.RefColumn))
}

// String returns the accumulated script
func (w *ScriptWriter) String() string {
	return w.b.String()
}

// TypeName upper-cases the base name of a type, leaving any argument list
// untouched, so DECIMAL and ENUM arguments are recognized by the parser.
// Whitespace inside the argument list is removed.
func TypeName(t string) string {
	t = strings.TrimSpace(t)
	open := strings.IndexByte(t, '(')
	if open < 0 {
		return strings.ToUpper(t)
	}
	closing := strings.LastIndexByte(t, ')')
	if closing < open {
		return strings.ToUpper(t)
	}
	args := strings.Join(strings.Fields(t[open:closing+1]), "")
	return strings.ToUpper(strings.TrimSpace(t[:open])) + args + t[closing+1:]
}

// selectTables keeps the names in all that were requested, in the order of
// all. An empty request keeps everything.
func selectTables(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}
	var selected []string
	for _, name := range all {
		if want[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
