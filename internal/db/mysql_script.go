package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentQueries bounds the per-table catalog queries run at once
const maxConcurrentQueries = 4

// MySQLScriptReader synthesizes a DDL script from MySQL's information_schema
type MySQLScriptReader struct {
	client     *MySQLClient
	schemaName string
}

var _ ScriptReader = (*MySQLScriptReader)(nil)

// NewMySQLScriptReader creates a new MySQL script reader
func NewMySQLScriptReader(client *MySQLClient, schemaName string) *MySQLScriptReader {
	return &MySQLScriptReader{
		client:     client,
		schemaName: schemaName,
	}
}

// ReadScript returns CREATE TABLE statements for the base tables, CREATE VIEW
// statements for the views and ALTER TABLE statements for the foreign keys.
// If tables is empty, every table and view in the schema is included.
func (r *MySQLScriptReader) ReadScript(ctx context.Context, tables []string) (string, error) {
	tableNames, err := r.getTableNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get table names: %w", err)
	}
	tableNames = selectTables(tableNames, tables)

	columns := make([][]ColumnDef, len(tableNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i, tableName := range tableNames {
		i, tableName := i, tableName
		g.Go(func() error {
			cols, err := r.getColumns(gctx, tableName)
			if err != nil {
				return fmt.Errorf("failed to read columns of %s: %w", tableName, err)
			}
			columns[i] = cols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var w ScriptWriter
	for i, tableName := range tableNames {
		w.CreateTable(tableName, columns[i])
	}

	views, err := r.getViews(ctx, tables)
	if err != nil {
		return "", fmt.Errorf("failed to read views: %w", err)
	}
	for _, v := range views {
		w.CreateView(v[0], v[1])
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

func (r *MySQLScriptReader) getTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query, r.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// getColumns reads column definitions in ordinal order
func (r *MySQLScriptReader) getColumns(ctx context.Context, tableName string) ([]ColumnDef, error) {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_key,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query, r.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnDef
	for rows.Next() {
		var col ColumnDef
		var nullable, columnKey string
		var extra sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &columnKey, &extra); err != nil {
			return nil, err
		}

		col.NotNull = nullable == "NO"
		col.PrimaryKey = columnKey == "PRI"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra.String), "auto_increment")

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// getViews returns (name, SELECT) pairs with identifier quoting and the
// schema qualifier removed from the stored definition
func (r *MySQLScriptReader) getViews(ctx context.Context, requested []string) ([][2]string, error) {
	query := `
		SELECT table_name, view_definition
		FROM information_schema.views
		WHERE table_schema = ?
		ORDER BY table_name
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query, r.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views [][2]string
	for rows.Next() {
		var name, definition string
		if err := rows.Scan(&name, &definition); err != nil {
			return nil, err
		}
		if len(requested) > 0 && !containsName(requested, name) {
			continue
		}
		views = append(views, [2]string{name, unquoteMySQL(definition, r.schemaName)})
	}

	return views, rows.Err()
}

// unquoteMySQL strips `schema`. qualifiers and backticks from a view body
func unquoteMySQL(definition, schemaName string) string {
	definition = strings.ReplaceAll(definition, "`"+schemaName+"`.", "")
	return strings.ReplaceAll(definition, "`", "")
}

// getForeignKeys extracts foreign key relationships
func (r *MySQLScriptReader) getForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.ordinal_position
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query, r.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		fk := ForeignKey{Table: tableName}
		if err := rows.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
