package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "INT"},
		{"varchar(255)", "VARCHAR(255)"},
		{"decimal(10, 2)", "DECIMAL(10,2)"},
		{"enum('a','B')", "ENUM('a','B')"},
		{"int unsigned", "INT UNSIGNED"},
		{"decimal(8,2) unsigned", "DECIMAL(8,2) unsigned"},
		{"  text  ", "TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TypeName(tt.in); got != tt.want {
				t.Errorf("TypeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScriptWriter(t *testing.T) {
	var w ScriptWriter
	w.CreateTable("users", []ColumnDef{
		{Name: "id", Type: "int", PrimaryKey: true, NotNull: true, AutoIncrement: true},
		{Name: "email", Type: "varchar(100)", NotNull: true},
		{Name: "balance", Type: "decimal(10,2)"},
	})
	w.CreateView("active", "SELECT u.id FROM users u;")
	w.AddForeignKey(ForeignKey{Table: "orders", Column: "user_id", RefTable: "users", RefColumn: "id"})
	w.Statement("   ")

	want := `CREATE TABLE users (
  id INT PRIMARY KEY AUTO_INCREMENT,
  email VARCHAR(100) NOT NULL,
  balance DECIMAL(10,2)
);

CREATE VIEW active AS
SELECT u.id FROM users u;

ALTER TABLE orders ADD FOREIGN KEY (user_id) REFERENCES users(id);

`
	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("ScriptWriter output mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectTables(t *testing.T) {
	all := []string{"a", "b", "c"}

	if diff := cmp.Diff(all, selectTables(all, nil)); diff != "" {
		t.Errorf("empty request mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, selectTables(all, []string{"c", "a", "zzz"})); diff != "" {
		t.Errorf("filtered request mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgresTypeName(t *testing.T) {
	n := func(v int32) *int32 { return &v }

	tests := []struct {
		name      string
		udt       string
		charLen   *int32
		precision *int32
		scale     *int32
		want      string
	}{
		{name: "varchar", udt: "varchar", charLen: n(50), want: "VARCHAR(50)"},
		{name: "unbounded varchar", udt: "varchar", want: "VARCHAR"},
		{name: "char", udt: "bpchar", charLen: n(2), want: "CHAR(2)"},
		{name: "numeric", udt: "numeric", precision: n(10), scale: n(2), want: "DECIMAL(10,2)"},
		{name: "bare numeric", udt: "numeric", want: "DECIMAL"},
		{name: "int4", udt: "int4", want: "INTEGER"},
		{name: "other", udt: "uuid", want: "UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postgresTypeName(tt.udt, tt.charLen, tt.precision, tt.scale); got != tt.want {
				t.Errorf("postgresTypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnquoteMySQL(t *testing.T) {
	in := "select `shop`.`u`.`id` AS `uid`,`shop`.`u`.`name` AS `name` from `shop`.`users` `u`"
	want := "select u.id AS uid,u.name AS name from users u"
	if got := unquoteMySQL(in, "shop"); got != want {
		t.Errorf("unquoteMySQL() = %q, want %q", got, want)
	}
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("user:pass@tcp(localhost:3306)/shop?parseTime=true")
	if err != nil {
		t.Fatalf("ParseDatabaseName() error = %v", err)
	}
	if name != "shop" {
		t.Errorf("ParseDatabaseName() = %q, want shop", name)
	}

	if _, err := ParseDatabaseName("user:pass@tcp(localhost:3306)/"); err == nil {
		t.Error("expected error for DSN without database")
	}
}
