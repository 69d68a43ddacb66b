package parser

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tordrt/ddlschema/internal/schema"
)

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func mustParse(t *testing.T, script string) *schema.Schema {
	t.Helper()
	result, err := Parse(script, quietOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result.Schema
}

func TestParseSimpleTable(t *testing.T) {
	s := mustParse(t, "CREATE TABLE t (c1 INT, c2 VARCHAR(50));")

	want := &schema.Schema{
		Tables: []schema.Table{
			{
				Name: "t",
				Columns: []schema.Column{
					{Name: "c1", DataType: "INT"},
					{Name: "c2", DataType: "VARCHAR(50)"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, s, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProtectsTypeArguments(t *testing.T) {
	s := mustParse(t, `
CREATE TABLE products (
  id INT PRIMARY KEY,
  price DECIMAL(10, 2) NOT NULL,
  status ENUM('draft', 'live', 'gone')
);`)

	table := s.FindTable("products")
	if table == nil {
		t.Fatal("products table not found")
	}
	if len(table.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d: %+v", len(table.Columns), table.Columns)
	}
	if got := table.Columns[1].DataType; got != "DECIMAL(10,2)" {
		t.Errorf("price type = %q, want DECIMAL(10,2)", got)
	}
	if got := table.Columns[2].DataType; got != "ENUM('draft','live','gone')" {
		t.Errorf("status type = %q, want ENUM('draft','live','gone')", got)
	}
}

func TestParseAttributeFiltering(t *testing.T) {
	s := mustParse(t, "CREATE TABLE t (id INT PRIMARY KEY NOT NULL DEFAULT 0);")

	want := []string{"PRIMARY", "KEY", "NOT", "NULL"}
	if diff := cmp.Diff(want, s.Tables[0].Columns[0].Attributes); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseViewAliasing(t *testing.T) {
	s := mustParse(t, "CREATE VIEW v AS SELECT u.id AS uid, u.name FROM users u;")

	want := []schema.Column{
		{Name: "uid", Reference: &schema.Reference{Table: "u", Column: "id"}},
		{Name: "name", Reference: &schema.Reference{Table: "u", Column: "name"}},
	}
	if diff := cmp.Diff(want, s.FindTable("v").Columns, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("view columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForeignKeyResolution(t *testing.T) {
	scripts := map[string]string{
		"orders first": `CREATE TABLE orders (cust_id INT);
CREATE TABLE customers (id INT);
ALTER TABLE orders ADD FOREIGN KEY (cust_id) REFERENCES customers(id);`,
		"customers first": `CREATE TABLE customers (id INT);
CREATE TABLE orders (cust_id INT);
ALTER TABLE orders ADD FOREIGN KEY (cust_id) REFERENCES customers(id);`,
	}

	for name, script := range scripts {
		t.Run(name, func(t *testing.T) {
			s := mustParse(t, script)
			col := s.FindTable("orders").FindColumn("cust_id")
			want := &schema.Reference{Table: "customers", Column: "id"}
			if diff := cmp.Diff(want, col.Reference); diff != "" {
				t.Errorf("cust_id reference mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAlterRunsAfterCreates(t *testing.T) {
	// The ALTER precedes the CREATE in the script but is still applied.
	s := mustParse(t, `ALTER TABLE orders ADD FOREIGN KEY (cust_id) REFERENCES customers(id);
CREATE TABLE orders (cust_id INT);`)

	ref := s.FindTable("orders").FindColumn("cust_id").Reference
	if ref == nil || ref.Table != "customers" {
		t.Errorf("reference = %+v, want customers.id", ref)
	}
}

func TestParseLastForeignKeyWins(t *testing.T) {
	s := mustParse(t, `CREATE TABLE a (x INT);
ALTER TABLE a ADD FOREIGN KEY (x) REFERENCES b(id);
ALTER TABLE a ADD FOREIGN KEY (x) REFERENCES c(id);`)

	ref := s.Tables[0].Columns[0].Reference
	if ref == nil || ref.Table != "c" {
		t.Errorf("reference = %+v, want c.id", ref)
	}
}

func TestParseForeignKeyOnView(t *testing.T) {
	s := mustParse(t, `CREATE VIEW v AS SELECT u.id FROM users u;
ALTER TABLE v ADD FOREIGN KEY (id) REFERENCES accounts(id);`)

	ref := s.FindTable("v").FindColumn("id").Reference
	if diff := cmp.Diff(&schema.Reference{Table: "accounts", Column: "id"}, ref); diff != "" {
		t.Errorf("view reference mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableOrder(t *testing.T) {
	s := mustParse(t, `CREATE VIEW first_view AS SELECT a FROM t;
CREATE TABLE t1 (a INT);
CREATE VIEW second_view AS SELECT a FROM t;
CREATE TABLE t2 (a INT);
CREATE TABLE t1 (b INT);`)

	var names []string
	for _, table := range s.Tables {
		names = append(names, table.Name)
	}
	want := []string{"t1", "t2", "t1", "first_view", "second_view"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("table order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIdempotent(t *testing.T) {
	script := `CREATE TABLE customers (id INT PRIMARY KEY, name VARCHAR(20));
CREATE TABLE orders (id INT, cust_id INT, total DECIMAL(8, 2));
CREATE VIEW big AS SELECT o.id, c.name AS who FROM orders o, customers c;
ALTER TABLE orders ADD FOREIGN KEY (cust_id) REFERENCES customers(id);`

	first := mustParse(t, script)
	second := mustParse(t, script)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parses differ (-first +second):\n%s", diff)
	}
}

func TestParseUnknownTargetIsInert(t *testing.T) {
	base := "CREATE TABLE users (id INT, org_id INT);"

	without := mustParse(t, base)
	with := mustParse(t, base+"\nALTER TABLE ghost ADD FOREIGN KEY (x) REFERENCES y(z);\nALTER TABLE users ADD FOREIGN KEY (missing) REFERENCES y(z);")

	if diff := cmp.Diff(without, with); diff != "" {
		t.Errorf("unknown targets changed the schema (-without +with):\n%s", diff)
	}
}

func TestParseLenientSkipsMalformed(t *testing.T) {
	result, err := Parse(`CREATE TABLE good (id INT);
CREATE TABLE broken;
CREATE TABLE also_good (id INT);`, quietOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(result.Schema.Tables) != 2 {
		t.Errorf("expected 2 tables, got %d", len(result.Schema.Tables))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped statement, got %d", len(result.Skipped))
	}
	skipped := result.Skipped[0]
	if skipped.Index != 1 {
		t.Errorf("skipped index = %d, want 1", skipped.Index)
	}
	if skipped.Text != "CREATE TABLE broken" {
		t.Errorf("skipped text = %q", skipped.Text)
	}
}

func TestParseStrictFailsOnMalformed(t *testing.T) {
	opts := quietOptions()
	opts.Strict = true

	_, err := Parse("CREATE TABLE good (id INT);\nALTER TABLE;", opts)
	if !errors.Is(err, ErrMalformedStatement) {
		t.Fatalf("Parse() error = %v, want ErrMalformedStatement", err)
	}

	var mErr *MalformedStatementError
	if !errors.As(err, &mErr) {
		t.Fatal("expected *MalformedStatementError")
	}
	if mErr.Index != 1 || mErr.Kind != KindAlterTable {
		t.Errorf("error = %+v, want index 1 of kind ALTER TABLE", mErr)
	}
}

func TestAssemblyStageOrder(t *testing.T) {
	var kinds []StatementKind
	for _, s := range assemblyStages {
		kinds = append(kinds, s.kind)
	}
	want := []StatementKind{KindCreateTable, KindCreateView, KindAlterTable}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("stage order mismatch (-want +got):\n%s", diff)
	}
}
