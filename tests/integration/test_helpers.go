//go:build integration
// +build integration

package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/tordrt/ddlschema"
	"github.com/tordrt/ddlschema/internal/schema"
)

// extractStrict reads the live schema and parses it in strict mode, so a
// statement the reader renders wrongly fails the test
func extractStrict(t *testing.T, url string, tables []string) *schema.Schema {
	t.Helper()

	s, err := ddlschema.ExtractSchema(context.Background(), url, &ddlschema.Options{
		Tables: tables,
		Strict: true,
	})
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	return s
}

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}

	for _, tableName := range expectedTables {
		if s.FindTable(tableName) == nil {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	for _, colName := range expectedColumns {
		if table.FindColumn(colName) == nil {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a column carries the PRIMARY KEY attributes
func verifyPrimaryKey(t *testing.T, table *schema.Table, columnName string) {
	t.Helper()

	col := table.FindColumn(columnName)
	if col == nil {
		t.Fatalf("Column %s not found in table %s", columnName, table.Name)
	}

	attrs := strings.Join(col.Attributes, " ")
	if !strings.Contains(strings.ToUpper(attrs), "PRIMARY KEY") {
		t.Errorf("Expected %s.%s to be a primary key, got attributes %v", table.Name, columnName, col.Attributes)
	}
}

// verifyDataType checks that a column's type starts with prefix
func verifyDataType(t *testing.T, table *schema.Table, columnName, prefix string) {
	t.Helper()

	col := table.FindColumn(columnName)
	if col == nil {
		t.Fatalf("Column %s not found in table %s", columnName, table.Name)
	}
	if !strings.HasPrefix(col.DataType, prefix) {
		t.Errorf("Expected %s.%s type to start with %s, got %q", table.Name, columnName, prefix, col.DataType)
	}
}

// verifyForeignKey checks that a column references the target table
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName, sourceColumn, targetTable string) {
	t.Helper()

	table := s.FindTable(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
	}

	col := table.FindColumn(sourceColumn)
	if col == nil || col.Reference == nil || col.Reference.Table != targetTable {
		t.Errorf("Expected foreign key relationship from %s.%s to %s not found", tableName, sourceColumn, targetTable)
	}
}

// verifyOnlyTables checks that exactly the named tables were extracted
func verifyOnlyTables(t *testing.T, s *schema.Schema, wantTables, unwantedTables []string) {
	t.Helper()

	if len(s.Tables) != len(wantTables) {
		t.Errorf("Expected %d tables, got %d", len(wantTables), len(s.Tables))
	}
	for _, name := range wantTables {
		if s.FindTable(name) == nil {
			t.Errorf("Expected table %s", name)
		}
	}
	for _, name := range unwantedTables {
		if s.FindTable(name) != nil {
			t.Errorf("Should not include table %s", name)
		}
	}
}
