package langs

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"gopkg.in/yaml.v3"
)

// Special languages need no grammar.
// They're never loaded, never validated against the catalog,
// and never labeled.
var _specialLanguages = map[string]struct{}{
	"text":      {},
	"txt":       {},
	"plain":     {},
	"plaintext": {},
	"ansi":      {},
}

// IsSpecial reports whether lang is a special language.
func IsSpecial(lang string) bool {
	_, ok := _specialLanguages[strings.ToLower(lang)]
	return ok
}

// Spec specifies a language to load.
//
// It's either the name of a bundled or special language,
// or a custom registration that supplies its own lexer.
type Spec struct {
	// ID is the language name.
	// For custom registrations, this is the name
	// code blocks use to refer to the language.
	ID string

	// Lexer is set for custom registrations only.
	Lexer chroma.Lexer
}

// Lang builds a Spec for a bundled or special language.
func Lang(id string) Spec {
	return Spec{ID: id}
}

// Custom builds a Spec for a custom grammar registration.
func Custom(name string, lexer chroma.Lexer) Spec {
	return Spec{ID: name, Lexer: lexer}
}

// IsCustom reports whether this is a custom registration.
func (s Spec) IsCustom() bool {
	return s.Lexer != nil
}

func (s Spec) String() string {
	if s.IsCustom() {
		return fmt.Sprintf("%s (custom)", s.ID)
	}
	return s.ID
}

var _ yaml.Unmarshaler = (*Spec)(nil)

// UnmarshalYAML decodes a language name.
// Custom registrations cannot be expressed in YAML.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return errtrace.Wrap(fmt.Errorf("language must be a string: %w", err))
	}
	*s = Lang(strings.TrimSpace(name))
	return nil
}

// MarshalYAML encodes the language name.
func (s Spec) MarshalYAML() (any, error) {
	return s.ID, nil
}

// IDs returns the ids of the given specs.
func IDs(specs []Spec) []string {
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}
