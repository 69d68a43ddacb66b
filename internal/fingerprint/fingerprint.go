package fingerprint

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tordrt/ddlschema/internal/schema"
)

// SchemaFingerprint identifies the structure of a parsed schema. Two schemas
// with equal tables, columns and references share a fingerprint.
type SchemaFingerprint struct {
	Hash uint64 `json:"hash"`
}

// Compute generates a fingerprint for the given schema
func Compute(s *schema.Schema) (*SchemaFingerprint, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot fingerprint a nil schema")
	}

	hash, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}

	return &SchemaFingerprint{Hash: hash}, nil
}

// Hex returns the full hash as 16 hex digits
func (f *SchemaFingerprint) Hex() string {
	return fmt.Sprintf("%016x", f.Hash)
}

// String returns a human-readable representation of the fingerprint
func (f *SchemaFingerprint) String() string {
	return fmt.Sprintf("Schema fingerprint: %s", f.Hex()[:8])
}
