package formatter

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/tordrt/ddlschema/internal/schema"
)

type jsonSchema struct {
	Tables []jsonTable `json:"tables"`
}

type jsonTable struct {
	Name    string       `json:"name"`
	Columns []jsonColumn `json:"columns"`
}

type jsonColumn struct {
	Name       string         `json:"name"`
	DataType   *string        `json:"dataType"`
	Attributes []string       `json:"attributes"`
	Reference  *jsonReference `json:"reference"`
}

type jsonReference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// JSONFormatter writes the schema as indented JSON. Absent data types and
// references are written as null.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the whole schema as one JSON document
func (f *JSONFormatter) Format(s *schema.Schema) error {
	doc := jsonSchema{Tables: make([]jsonTable, 0, len(s.Tables))}
	for _, table := range s.Tables {
		doc.Tables = append(doc.Tables, toJSONTable(table))
	}
	return f.encode(doc)
}

// FormatTable writes a single table as a JSON object
func (f *JSONFormatter) FormatTable(table schema.Table) error {
	return f.encode(toJSONTable(table))
}

func (f *JSONFormatter) encode(v any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toJSONTable(table schema.Table) jsonTable {
	out := jsonTable{
		Name:    table.Name,
		Columns: make([]jsonColumn, 0, len(table.Columns)),
	}

	for _, col := range table.Columns {
		jc := jsonColumn{
			Name:       col.Name,
			Attributes: col.Attributes,
		}
		if jc.Attributes == nil {
			jc.Attributes = []string{}
		}
		if col.DataType != "" {
			dataType := col.DataType
			jc.DataType = &dataType
		}
		if col.Reference != nil {
			jc.Reference = &jsonReference{Table: col.Reference.Table, Column: col.Reference.Column}
		}
		out.Columns = append(out.Columns, jc)
	}

	return out
}
