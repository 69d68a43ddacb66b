//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"
)

func sqliteURL() string {
	// Use environment variable if set, otherwise use default test database
	dbPath := os.Getenv("SQLITE_TEST_PATH")
	if dbPath == "" {
		dbPath = "../../test.db"
	}
	return "sqlite://" + dbPath
}

func TestSQLiteExtraction(t *testing.T) {
	s := extractStrict(t, sqliteURL(), nil)

	// Verify tables exist
	expectedTables := []string{"users", "products", "orders", "order_items"}
	verifyTablesExist(t, s, expectedTables)

	// Verify users table structure
	table := s.FindTable("users")
	if table == nil {
		t.Fatal("Users table not found")
	}
	verifyPrimaryKey(t, table, "id")
	expectedColumns := []string{"id", "username", "email", "status", "created_at"}
	verifyColumns(t, table, expectedColumns)

	// Verify foreign key relationships
	verifyForeignKey(t, s, "orders", "user_id", "users")
}

func TestSQLiteSpecificTables(t *testing.T) {
	// Extract only users and products tables
	s := extractStrict(t, sqliteURL(), []string{"users", "products"})

	verifyOnlyTables(t, s, []string{"users", "products"}, []string{"orders", "order_items"})
}
