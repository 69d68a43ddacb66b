package schema

// Schema represents every table and view declared by a DDL script
type Schema struct {
	Tables []Table
}

// Table represents a table or a view. Column order is declaration order and
// duplicate column names are kept as they appear.
type Table struct {
	Name    string
	Columns []Column
}

// Column represents a table column
type Column struct {
	Name       string
	DataType   string // empty for view columns, whose type is not known locally
	Attributes []string
	Reference  *Reference
}

// Reference points a column at the column it refers to, either through a
// foreign key or as the source of a view projection
type Reference struct {
	Table  string
	Column string
}

// FindTable returns the first table named name, or nil
func (s *Schema) FindTable(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// FindColumn returns the first column named name, or nil
func (t *Table) FindColumn(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// SetReference points the column at table.column, replacing any earlier reference
func (c *Column) SetReference(table, column string) {
	c.Reference = &Reference{Table: table, Column: column}
}

// References returns the columns of t that carry a reference, in column order
func (t *Table) References() []Column {
	var refs []Column
	for _, col := range t.Columns {
		if col.Reference != nil {
			refs = append(refs, col)
		}
	}
	return refs
}
