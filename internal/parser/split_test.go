package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	script := `
CREATE TABLE users (id INT);
  ;
CREATE VIEW v AS SELECT u.id FROM users u;
ALTER TABLE users ADD email VARCHAR(100);
DROP TABLE legacy;
CREATE TABLE orders (id INT);
`

	got := Split(script)

	want := Statements{
		CreateTables: []Fragment{
			{Index: 0, Text: "CREATE TABLE users (id INT)"},
			{Index: 4, Text: "CREATE TABLE orders (id INT)"},
		},
		CreateViews: []Fragment{
			{Index: 1, Text: "CREATE VIEW v AS SELECT u.id FROM users u"},
		},
		AlterTables: []Fragment{
			{Index: 2, Text: "ALTER TABLE users ADD email VARCHAR(100)"},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitClassifiesIndependently(t *testing.T) {
	st := Split("CREATE TABLE t (a INT) ALTER TABLE t ADD b INT")

	if len(st.CreateTables) != 1 {
		t.Errorf("expected fragment in create-table list, got %d", len(st.CreateTables))
	}
	if len(st.AlterTables) != 1 {
		t.Errorf("expected fragment in alter-table list, got %d", len(st.AlterTables))
	}
	if len(st.CreateViews) != 0 {
		t.Errorf("expected no create-view fragments, got %d", len(st.CreateViews))
	}
}

func TestSplitEmptyScript(t *testing.T) {
	st := Split(" ;\n ; ")
	for _, kind := range []StatementKind{KindCreateTable, KindCreateView, KindAlterTable} {
		if n := len(st.Of(kind)); n != 0 {
			t.Errorf("%s fragments = %d, want 0", kind, n)
		}
	}
}
