// Package entity defines the YAML-persisted design records the pdt tool
// edits: toleranced features and the stackups built from them. The analysis
// engines never read these files; the CLI resolves entities into plain
// numeric inputs first.
package entity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jackhale98/PDT/errors"
)

// Entity ID prefixes.
const (
	PrefixStackup = "TOL"
	PrefixFeature = "FEAT"
)

// ID is a prefixed entity identifier, e.g. TOL-1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed.
type ID string

// NewID generates a fresh identifier with the given prefix.
func NewID(prefix string) ID {
	return ID(prefix + "-" + uuid.NewString())
}

// NewStackupID generates a TOL- identifier.
func NewStackupID() ID { return NewID(PrefixStackup) }

// NewFeatureID generates a FEAT- identifier.
func NewFeatureID() ID { return NewID(PrefixFeature) }

// Prefix returns the type prefix, or "" for a malformed ID.
func (id ID) Prefix() string {
	prefix, _, ok := strings.Cut(string(id), "-")
	if !ok {
		return ""
	}
	return prefix
}

// Short returns the prefix plus the first eight characters of the random
// part, for display and file names.
func (id ID) Short() string {
	prefix, rest, ok := strings.Cut(string(id), "-")
	if !ok || len(rest) < 8 {
		return string(id)
	}
	return prefix + "-" + rest[:8]
}

// Validate checks the ID has the expected prefix and a parseable random part.
func (id ID) Validate(wantPrefix string) error {
	prefix, rest, ok := strings.Cut(string(id), "-")
	if !ok || prefix != wantPrefix {
		return errors.NewValidationError("id %q: expected prefix %s-", id, wantPrefix)
	}
	if _, err := uuid.Parse(rest); err != nil {
		return errors.NewValidationError("id %q: malformed identifier", id)
	}
	return nil
}
