package langs

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
)

// UnsupportedLanguageError is returned when a language resolves
// to neither a catalog language nor a special language.
type UnsupportedLanguageError struct {
	Language  string
	Canonical string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Language == e.Canonical {
		return fmt.Sprintf("unsupported language %q", e.Language)
	}
	return fmt.Sprintf("unsupported language %q (canonical: %q)", e.Language, e.Canonical)
}

// Resolved is the outcome of resolving a block's language.
type Resolved struct {
	// Spec to load for this language.
	// For special languages, Spec.ID is the special name.
	Spec Spec

	// Special is set for special languages,
	// which need no grammar and get no label.
	Special bool
}

// ID is the canonical id of the language.
func (r Resolved) ID() string { return r.Spec.ID }

// ResolveRequest resolves the language of a single code block.
//
// Special languages resolve to themselves.
// Custom registrations match by id.
// Anything else is alias-resolved against the catalog,
// and must be a catalog language.
func (c *Catalog) ResolveRequest(lang string, custom []Spec) (Resolved, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return Resolved{}, errtrace.Wrap(&UnsupportedLanguageError{})
	}

	if IsSpecial(lang) {
		return Resolved{Spec: Lang(strings.ToLower(lang)), Special: true}, nil
	}

	for _, s := range custom {
		if s.IsCustom() && s.ID == lang {
			return Resolved{Spec: s}, nil
		}
	}

	canonical := c.Resolve(lang)
	if !c.Has(canonical) {
		return Resolved{}, errtrace.Wrap(&UnsupportedLanguageError{
			Language:  lang,
			Canonical: canonical,
		})
	}
	return Resolved{Spec: Lang(canonical)}, nil
}
