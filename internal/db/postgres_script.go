package db

import (
	"context"
	"fmt"
	"strings"
)

// PostgresScriptReader synthesizes a DDL script from the PostgreSQL catalog
type PostgresScriptReader struct {
	client *PostgresClient
	schema string
}

var _ ScriptReader = (*PostgresScriptReader)(nil)

// NewPostgresScriptReader creates a new PostgreSQL script reader
func NewPostgresScriptReader(client *PostgresClient, schemaName string) *PostgresScriptReader {
	return &PostgresScriptReader{
		client: client,
		schema: schemaName,
	}
}

// ReadScript returns CREATE TABLE statements for the base tables, CREATE VIEW
// statements for the views and ALTER TABLE statements for the foreign keys.
// If tables is empty, every table and view in the schema is included.
func (r *PostgresScriptReader) ReadScript(ctx context.Context, tables []string) (string, error) {
	tableNames, err := r.getNames(ctx, `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return "", fmt.Errorf("failed to get table names: %w", err)
	}
	tableNames = selectTables(tableNames, tables)

	var w ScriptWriter
	for _, tableName := range tableNames {
		columns, err := r.getColumns(ctx, tableName)
		if err != nil {
			return "", fmt.Errorf("failed to read columns of %s: %w", tableName, err)
		}
		w.CreateTable(tableName, columns)
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

func (r *PostgresScriptReader) getNames(ctx context.Context, query string) ([]string, error) {
	rows, err := r.client.GetConnection().Query(ctx, query, r.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// getColumns reads column definitions in ordinal order
func (r *PostgresScriptReader) getColumns(ctx context.Context, tableName string) ([]ColumnDef, error) {
	query := `
		SELECT
			c.column_name::text,
			c.udt_name::text,
			c.character_maximum_length::int,
			c.numeric_precision::int,
			c.numeric_scale::int,
			c.is_nullable::text,
			COALESCE(c.column_default::text, ''),
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
				WHERE tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND tc.constraint_type = 'PRIMARY KEY'
					AND kcu.column_name = c.column_name
			) AS is_primary
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := r.client.GetConnection().Query(ctx, query, r.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnDef
	for rows.Next() {
		var col ColumnDef
		var udtName, nullable, defaultVal string
		var charLen, precision, scale *int32

		if err := rows.Scan(&col.Name, &udtName, &charLen, &precision, &scale, &nullable, &defaultVal, &col.PrimaryKey); err != nil {
			return nil, err
		}

		col.Type = postgresTypeName(udtName, charLen, precision, scale)
		col.NotNull = nullable == "NO"
		col.AutoIncrement = strings.HasPrefix(defaultVal, "nextval(")

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// postgresTypeName renders a column type without spaces. Numeric types are
// written as DECIMAL so their precision arguments are kept together.
func postgresTypeName(udtName string, charLen, precision, scale *int32) string {
	switch udtName {
	case "varchar", "bpchar":
		base := "VARCHAR"
		if udtName == "bpchar" {
			base = "CHAR"
		}
		if charLen != nil {
			return fmt.Sprintf("%s(%d)", base, *charLen)
		}
		return base
	case "numeric":
		if precision != nil && scale != nil {
			return fmt.Sprintf("DECIMAL(%d,%d)", *precision, *scale)
		}
		return "DECIMAL"
	case "int2":
		return "SMALLINT"
	case "int4":
		return "INTEGER"
	case "int8":
		return "BIGINT"
	case "bool":
		return "BOOLEAN"
	case "float4":
		return "REAL"
	case "timestamptz":
		return "TIMESTAMPTZ"
	default:
		return strings.ToUpper(udtName)
	}
}

// getViews returns (name, definition) pairs of the schema's views
func (r *PostgresScriptReader) getViews(ctx context.Context, requested []string) ([][2]string, error) {
	query := `
		SELECT viewname::text, definition
		FROM pg_views
		WHERE schemaname = $1
		ORDER BY viewname
	`

	rows, err := r.client.GetConnection().Query(ctx, query, r.schema)
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
		views = append(views, [2]string{name, definition})
	}

	return views, rows.Err()
}

// getForeignKeys extracts foreign key relationships
func (r *PostgresScriptReader) getForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name::text,
			ccu.table_name::text AS foreign_table_name,
			ccu.column_name::text AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := r.client.GetConnection().Query(ctx, query, r.schema, tableName)
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
