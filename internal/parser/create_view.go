package parser

import (
	"regexp"
	"strings"

	"github.com/tordrt/ddlschema/internal/schema"
)

var (
	viewNameRegex       = regexp.MustCompile(`CREATE\s+VIEW\s+(\w+)`)
	viewProjectionRegex = regexp.MustCompile(`(?is)\bSELECT\s+(.*?)\s+FROM\b`)
	// table qualifier, column, optional alias
	viewColumnRegex = regexp.MustCompile(`^(\w+)(?:\.(\w+))?(?:\s+(?i:AS)\s+(\w+))?`)
)

// ParseCreateView extracts a table from a CREATE VIEW fragment. Its columns
// are the projected SELECT expressions; qualified expressions (t.col) carry a
// reference to their source. Expressions the column pattern cannot read are
// skipped.
func ParseCreateView(fragment string) (*schema.Table, error) {
	nameMatch := viewNameRegex.FindStringSubmatch(fragment)
	if nameMatch == nil {
		return nil, malformed(KindCreateView, fragment, "missing view name")
	}

	view := &schema.Table{Name: nameMatch[1]}

	projection := viewProjectionRegex.FindStringSubmatch(fragment)
	if projection == nil {
		return view, nil
	}

	for _, expr := range strings.Split(projection[1], ",") {
		m := viewColumnRegex.FindStringSubmatch(strings.TrimSpace(expr))
		if m == nil {
			continue
		}
		table, column, alias := m[1], m[2], m[3]

		col := schema.Column{Name: table}
		switch {
		case alias != "":
			col.Name = alias
		case column != "":
			col.Name = column
		}
		if column != "" {
			col.SetReference(table, column)
		}
		view.Columns = append(view.Columns, col)
	}

	return view, nil
}
