package parser

import (
	"errors"
	"fmt"
)

// ErrMalformedStatement is matched by every *MalformedStatementError
var ErrMalformedStatement = errors.New("malformed statement")

// MalformedStatementError reports a fragment that was classified as a
// statement kind but lacks the punctuation or identifier that kind requires
type MalformedStatementError struct {
	Index  int // zero-based position of the fragment in the script
	Kind   StatementKind
	Text   string
	Reason string
}

func (e *MalformedStatementError) Error() string {
	return fmt.Sprintf("malformed %s statement #%d: %s: %q", e.Kind, e.Index, e.Reason, abbreviate(e.Text, 60))
}

// Is makes errors.Is(err, ErrMalformedStatement) succeed
func (e *MalformedStatementError) Is(target error) bool {
	return target == ErrMalformedStatement
}

func malformed(kind StatementKind, text, reason string) *MalformedStatementError {
	return &MalformedStatementError{Index: -1, Kind: kind, Text: text, Reason: reason}
}

func abbreviate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
