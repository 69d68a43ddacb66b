package db

import (
	"context"
	"fmt"
)

// SQLiteScriptReader reads the stored CREATE statements of a SQLite database
type SQLiteScriptReader struct {
	client *SQLiteClient
}

var _ ScriptReader = (*SQLiteScriptReader)(nil)

// NewSQLiteScriptReader creates a new SQLite script reader
func NewSQLiteScriptReader(client *SQLiteClient) *SQLiteScriptReader {
	return &SQLiteScriptReader{client: client}
}

type sqliteObject struct {
	kind string
	name string
	sql  string
}

// ReadScript returns the CREATE TABLE and CREATE VIEW statements stored in
// sqlite_master, in creation order, followed by one ALTER TABLE per foreign
// key. Inline REFERENCES clauses are not read by the parser, so the foreign
// keys are restated from PRAGMA foreign_key_list.
// If tables is empty, every table and view is included.
func (r *SQLiteScriptReader) ReadScript(ctx context.Context, tables []string) (string, error) {
	objects, err := r.getObjects(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list schema objects: %w", err)
	}

	var names []string
	for _, obj := range objects {
		names = append(names, obj.name)
	}
	names = selectTables(names, tables)

	var w ScriptWriter
	var tableNames []string
	for _, obj := range objects {
		if !containsName(names, obj.name) {
			continue
		}
		w.Statement(obj.sql)
		if obj.kind == "table" {
			tableNames = append(tableNames, obj.name)
		}
	}

	for _, tableName := range tableNames {
		fks, err := r.getForeignKeys(ctx, tableName)
		if err != nil {
			return "", fmt.Errorf("failed to read foreign keys of %s: %w", tableName, err)
		}
		for _, fk := range fks {
			w.AddForeignKey(fk)
		}
	}

	return w.String(), nil
}

// getObjects lists tables and views with their stored SQL in creation order
func (r *SQLiteScriptReader) getObjects(ctx context.Context) ([]sqliteObject, error) {
	query := `
		SELECT type, name, sql
		FROM sqlite_master
		WHERE type IN ('table', 'view')
			AND name NOT LIKE 'sqlite_%'
			AND sql IS NOT NULL
		ORDER BY rowid
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []sqliteObject
	for rows.Next() {
		var obj sqliteObject
		if err := rows.Scan(&obj.kind, &obj.name, &obj.sql); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return objects, rows.Err()
}

// getForeignKeys returns the single-column foreign keys of a table
func (r *SQLiteScriptReader) getForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName)

	rows, err := r.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol *string

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		// A NULL target column means the parent's primary key; it cannot be
		// named without another lookup, so the key is left out.
		if toCol == nil {
			continue
		}

		fks = append(fks, ForeignKey{
			Table:     tableName,
			Column:    fromCol,
			RefTable:  targetTable,
			RefColumn: *toCol,
		})
	}

	return fks, rows.Err()
}
