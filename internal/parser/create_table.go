package parser

import (
	"strings"

	"github.com/tordrt/ddlschema/internal/schema"
)

// columnSeparator is the delimiter Normalize guarantees between column definitions
const columnSeparator = ", "

// attributeKeywords are the column modifiers kept on a column; any other
// trailing token, such as a DEFAULT clause, is dropped
var attributeKeywords = map[string]bool{
	"PRIMARY":        true,
	"KEY":            true,
	"NOT":            true,
	"NULL":           true,
	"AUTO_INCREMENT": true,
}

// ParseCreateTable extracts a table from a normalized CREATE TABLE fragment.
//
// The column list runs from the first "(" after the table name up to, but not
// including, the fragment's last character, which is expected to be ")".
// Definitions with fewer than two tokens (name and type) are skipped.
func ParseCreateTable(fragment string) (*schema.Table, error) {
	prefix := strings.Index(fragment, KindCreateTable.keyword())
	if prefix < 0 {
		return nil, malformed(KindCreateTable, fragment, "missing CREATE TABLE keyword")
	}
	nameStart := prefix + len(KindCreateTable.keyword())

	open := strings.IndexByte(fragment[nameStart:], '(')
	if open < 0 {
		return nil, malformed(KindCreateTable, fragment, "missing column list")
	}
	open += nameStart

	name := strings.TrimSpace(fragment[nameStart:open])
	if name == "" {
		return nil, malformed(KindCreateTable, fragment, "missing table name")
	}

	table := &schema.Table{Name: name}

	body := ""
	if open+1 < len(fragment) {
		body = fragment[open+1 : len(fragment)-1]
	}

	for _, definition := range strings.Split(body, columnSeparator) {
		parts := strings.Fields(definition)
		if len(parts) < 2 {
			continue
		}
		table.Columns = append(table.Columns, schema.Column{
			Name:       parts[0],
			DataType:   parts[1],
			Attributes: filterAttributes(parts[2:]),
		})
	}

	return table, nil
}

func filterAttributes(tokens []string) []string {
	var attrs []string
	for _, token := range tokens {
		if attributeKeywords[strings.ToUpper(token)] {
			attrs = append(attrs, token)
		}
	}
	return attrs
}
