// Package langs resolves language names for code blocks.
//
// A [Catalog] knows every bundled language by a canonical id
// and maps aliases to those ids.
// On top of it, [Normalize] cleans up a configured language list,
// and [Catalog.ResolveRequest] resolves the language of a single block.
package langs

import (
	"slices"
	"strings"
	"sync"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Entry describes a bundled language.
type Entry struct {
	// ID is the canonical identifier of the language.
	ID string

	// Name is a human-readable name.
	Name string

	// Aliases are alternative names that resolve to ID.
	// The first alias shorter than ID doubles as the display label.
	Aliases []string

	// Filenames are glob patterns for files in this language.
	Filenames []string

	// Lexer tokenizes the language.
	// This may be nil for catalogs used only for name resolution.
	Lexer chroma.Lexer
}

// Catalog is an immutable set of bundled languages
// with an alias table over them.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	entries []Entry
	byID    map[string]int
	aliases map[string]string // alias -> id
}

// NewCatalog builds a catalog from the given entries.
//
// Entries with duplicate ids are dropped after the first.
// An alias that matches the id of another entry is ignored
// so that resolution never chains.
// If two entries declare the same alias, the first one wins.
func NewCatalog(entries []Entry) *Catalog {
	c := Catalog{
		byID:    make(map[string]int, len(entries)),
		aliases: make(map[string]string),
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, ok := c.byID[e.ID]; ok {
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	for _, e := range c.entries {
		for _, alias := range e.Aliases {
			if alias == "" || alias == e.ID {
				continue
			}
			if _, ok := c.byID[alias]; ok {
				continue
			}
			if _, ok := c.aliases[alias]; ok {
				continue
			}
			c.aliases[alias] = e.ID
		}
	}

	return &c
}

// Resolve returns the canonical id for the given alias.
// If s is not a known alias, it's returned unchanged.
func (c *Catalog) Resolve(s string) string {
	if id, ok := c.aliases[s]; ok {
		return id
	}
	return s
}

// Has reports whether id is the canonical id of a catalog language.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup returns the entry for a canonical id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// IDs returns the canonical ids of all languages in the catalog,
// in the order they were registered.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

// Aliases returns a copy of the alias table.
func (c *Catalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// Label returns the text shown for a language in a caption:
// the first declared alias that is shorter than the id,
// or the id itself.
// Aliases equal to the id are skipped, as in [NewCatalog].
// lang may be an alias.
func (c *Catalog) Label(lang string) string {
	id := c.Resolve(lang)
	if e, ok := c.Lookup(id); ok {
		for _, alias := range e.Aliases {
			if alias != "" && alias != e.ID && len(alias) < len(e.ID) {
				return alias
			}
		}
	}
	return id
}

// Supports reports whether lang names a special language
// or resolves to a catalog language.
func (c *Catalog) Supports(lang string) bool {
	return IsSpecial(lang) || c.Has(c.Resolve(lang))
}

// Option is a selectable language, as shown by an editor.
type Option struct {
	Label string
	Value string
}

// Options lists the catalog languages that appear in configured,
// by alias or by id, as selectable options.
// Custom registrations are matched by id against the catalog.
func (c *Catalog) Options(configured []Spec) []Option {
	want := make(map[string]struct{})
	for _, s := range configured {
		want[s.ID] = struct{}{}
		if !s.IsCustom() {
			want[c.Resolve(s.ID)] = struct{}{}
		}
	}

	var opts []Option
	for _, e := range c.entries {
		_, byID := want[e.ID]
		_, byName := want[e.Name]
		if byID || byName {
			opts = append(opts, Option{Label: e.Name, Value: e.ID})
		}
	}
	return opts
}

// FromChroma builds a catalog from the lexers in a chroma registry.
//
// Ids are lowercased lexer names with spaces replaced by dashes.
// The lexer's own name is recorded as an alias when it differs from the id.
// The plain text lexer is left out: plain text is a special language.
func FromChroma(reg *chroma.LexerRegistry) *Catalog {
	entries := make([]Entry, 0, len(reg.Lexers))
	for _, l := range reg.Lexers {
		cfg := l.Config()
		id := canonicalName(cfg.Name)
		if id == "" || IsSpecial(id) || IsSpecial(cfg.Name) {
			continue
		}

		aliases := slices.Clone(cfg.Aliases)
		if cfg.Name != id {
			aliases = append(aliases, cfg.Name)
		}

		entries = append(entries, Entry{
			ID:        id,
			Name:      cfg.Name,
			Aliases:   aliases,
			Filenames: slices.Clone(cfg.Filenames),
			Lexer:     l,
		})
	}
	return NewCatalog(entries)
}

func canonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

var _defaultCatalog = sync.OnceValue(func() *Catalog {
	return FromChroma(lexers.GlobalLexerRegistry)
})

// Default returns the catalog of all languages bundled with chroma.
// It's built on first use and shared afterwards.
func Default() *Catalog {
	return _defaultCatalog()
}
