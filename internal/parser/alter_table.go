package parser

import (
	"regexp"
	"strings"
)

// AlterationKind classifies one sub-statement of an ALTER TABLE
type AlterationKind int

const (
	Unknown AlterationKind = iota
	AddForeignKey
	Add
	DropColumn
	RenameColumn
	AlterColumn
	ModifyColumn
	Modify
)

func (k AlterationKind) String() string {
	switch k {
	case AddForeignKey:
		return "ADD FOREIGN KEY"
	case Add:
		return "ADD"
	case DropColumn:
		return "DROP COLUMN"
	case RenameColumn:
		return "RENAME COLUMN"
	case AlterColumn:
		return "ALTER COLUMN"
	case ModifyColumn:
		return "MODIFY COLUMN"
	case Modify:
		return "MODIFY"
	default:
		return "UNKNOWN"
	}
}

// AlterationStatement is one sub-statement of an ALTER TABLE. Only
// AddForeignKey alterations are decomposed; the Referenced* fields stay empty
// for every other kind, and for a foreign key clause that cannot be read.
type AlterationStatement struct {
	Kind             AlterationKind
	RawText          string
	ConcernedColumn  string
	ReferencedTable  string
	ReferencedColumn string
}

// AlterTableStatement is the parsed form of one ALTER TABLE fragment
type AlterTableStatement struct {
	TableName   string
	Alterations []AlterationStatement
}

type alterationPattern struct {
	kind          AlterationKind
	match         *regexp.Regexp
	notFollowedBy *regexp.Regexp
}

// alterationPatterns are tried in order; the first match wins
var alterationPatterns = []alterationPattern{
	{kind: AddForeignKey, match: regexp.MustCompile(`\bADD\s+FOREIGN\s+KEY\b`)},
	{kind: Add, match: regexp.MustCompile(`\bADD\b`), notFollowedBy: regexp.MustCompile(`^\s+FOREIGN\s+KEY\b`)},
	{kind: DropColumn, match: regexp.MustCompile(`\bDROP\s+COLUMN\b`)},
	{kind: RenameColumn, match: regexp.MustCompile(`\bRENAME\s+COLUMN\b`)},
	{kind: AlterColumn, match: regexp.MustCompile(`\bALTER\s+COLUMN\b`)},
	{kind: ModifyColumn, match: regexp.MustCompile(`\bMODIFY\s+COLUMN\b`)},
	{kind: Modify, match: regexp.MustCompile(`\bMODIFY\b`), notFollowedBy: regexp.MustCompile(`^\s+COLUMN\b`)},
}

var (
	alterTableNameRegex = regexp.MustCompile(`ALTER\s+TABLE\s+(\w+)\s+`)
	foreignKeyRegex     = regexp.MustCompile(`FOREIGN\s+KEY\s*\((\w+)\)\s+REFERENCES\s+(\w+)\s*\((\w+)\)`)
)

func (p alterationPattern) matches(text string) bool {
	for _, loc := range p.match.FindAllStringIndex(text, -1) {
		if p.notFollowedBy == nil || !p.notFollowedBy.MatchString(text[loc[1]:]) {
			return true
		}
	}
	return false
}

// classifyAlteration returns the kind of a sub-statement whose ALTER TABLE
// prefix has already been removed
func classifyAlteration(text string) AlterationKind {
	for _, p := range alterationPatterns {
		if p.matches(text) {
			return p.kind
		}
	}
	return Unknown
}

// ParseAlterTable splits an ALTER TABLE fragment on ", " into alterations.
// The split runs over the whole fragment, so the ALTER TABLE <name> prefix is
// stripped from each sub-statement before it is classified.
func ParseAlterTable(fragment string) (*AlterTableStatement, error) {
	nameMatch := alterTableNameRegex.FindStringSubmatch(fragment)
	if nameMatch == nil {
		return nil, malformed(KindAlterTable, fragment, "missing target table name")
	}

	stmt := &AlterTableStatement{TableName: nameMatch[1]}
	prefix := regexp.MustCompile(`ALTER\s+TABLE\s+` + regexp.QuoteMeta(stmt.TableName) + `\s+`)

	for _, sub := range strings.Split(fragment, columnSeparator) {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		text := prefix.ReplaceAllString(sub, "")

		alteration := AlterationStatement{
			Kind:    classifyAlteration(text),
			RawText: text,
		}
		if alteration.Kind == AddForeignKey {
			if m := foreignKeyRegex.FindStringSubmatch(text); m != nil {
				alteration.ConcernedColumn = m[1]
				alteration.ReferencedTable = m[2]
				alteration.ReferencedColumn = m[3]
			}
		}
		stmt.Alterations = append(stmt.Alterations, alteration)
	}

	return stmt, nil
}
