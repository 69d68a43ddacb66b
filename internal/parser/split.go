package parser

import "strings"

// StatementKind identifies which extractor a fragment is routed to
type StatementKind int

const (
	KindCreateTable StatementKind = iota
	KindCreateView
	KindAlterTable
)

func (k StatementKind) String() string {
	switch k {
	case KindCreateTable:
		return "CREATE TABLE"
	case KindCreateView:
		return "CREATE VIEW"
	case KindAlterTable:
		return "ALTER TABLE"
	default:
		return "UNKNOWN"
	}
}

// keyword returns the phrase whose presence routes a fragment to k
func (k StatementKind) keyword() string {
	return k.String()
}

// Fragment is one trimmed, non-empty ";"-delimited statement
type Fragment struct {
	Index int
	Text  string
}

// Statements holds the classified fragments of a script, each list in
// script order
type Statements struct {
	CreateTables []Fragment
	CreateViews  []Fragment
	AlterTables  []Fragment
}

// Of returns the fragments classified as kind
func (s *Statements) Of(kind StatementKind) []Fragment {
	switch kind {
	case KindCreateTable:
		return s.CreateTables
	case KindCreateView:
		return s.CreateViews
	case KindAlterTable:
		return s.AlterTables
	default:
		return nil
	}
}

// Split cuts normalized text on ";" and classifies each fragment. The keyword
// checks are independent, so a fragment may appear in more than one list.
func Split(normalized string) Statements {
	var st Statements

	index := 0
	for _, raw := range strings.Split(normalized, ";") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		f := Fragment{Index: index, Text: text}
		index++

		if strings.Contains(text, KindCreateTable.keyword()) {
			st.CreateTables = append(st.CreateTables, f)
		}
		if strings.Contains(text, KindCreateView.keyword()) {
			st.CreateViews = append(st.CreateViews, f)
		}
		if strings.Contains(text, KindAlterTable.keyword()) {
			st.AlterTables = append(st.AlterTables, f)
		}
	}

	return st
}
