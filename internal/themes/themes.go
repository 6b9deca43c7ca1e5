// Package themes lists the syntax highlighting themes available to code blocks,
// split into light and dark themes.
package themes

import (
	"slices"
	"strings"
	"sync"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Theme is a single syntax highlighting theme.
type Theme struct {
	// ID is the name the theme is registered under.
	ID string

	// Label is a human-readable name for the theme.
	Label string

	// Dark is set for themes with a dark background.
	Dark bool

	// Style holds the colors of the theme.
	Style *chroma.Style
}

// Pair is the pair of themes a code block is rendered with.
type Pair struct {
	Light string `yaml:"light,omitempty"`
	Dark  string `yaml:"dark,omitempty"`
}

// IDs returns the ids of both themes, light first.
func (p Pair) IDs() []string {
	return []string{p.Light, p.Dark}
}

// Catalog lists available themes, split by background.
// Each list is sorted by label.
type Catalog struct {
	Light []Theme
	Dark  []Theme
}

// IDs returns the ids of all themes in the catalog,
// light themes first.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Light)+len(c.Dark))
	for _, t := range c.Light {
		ids = append(ids, t.ID)
	}
	for _, t := range c.Dark {
		ids = append(ids, t.ID)
	}
	return ids
}

// Lookup finds a theme by id.
func (c *Catalog) Lookup(id string) (Theme, bool) {
	for _, list := range [][]Theme{c.Light, c.Dark} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Theme{}, false
}

// FromStyles builds a catalog from a set of chroma styles keyed by id.
//
// A style is dark if its background is closer to black than to white.
// Styles without a background are considered light.
func FromStyles(reg map[string]*chroma.Style) *Catalog {
	title := cases.Title(language.English)
	dashes := strings.NewReplacer("-", " ", "_", " ")

	var c Catalog
	for id, s := range reg {
		if s == nil {
			continue
		}
		t := Theme{
			ID:    id,
			Label: title.String(dashes.Replace(id)),
			Dark:  IsDark(s),
			Style: s,
		}
		if t.Dark {
			c.Dark = append(c.Dark, t)
		} else {
			c.Light = append(c.Light, t)
		}
	}

	sortByLabel(c.Light)
	sortByLabel(c.Dark)
	return &c
}

// IsDark reports whether a style has a dark background.
func IsDark(s *chroma.Style) bool {
	bg := s.Get(chroma.Background).Background
	return bg.IsSet() && bg.Brightness() < 0.5
}

func sortByLabel(ts []Theme) {
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortFunc(ts, func(a, b Theme) int {
		if c := col.CompareString(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

var _defaultCatalog = sync.OnceValue(func() *Catalog {
	return FromStyles(styles.Registry)
})

// Default returns the catalog of themes bundled with chroma.
func Default() *Catalog {
	return _defaultCatalog()
}

// DefaultPair is the theme pair used when nothing else is configured.
var DefaultPair = Pair{
	Light: "github",
	Dark:  "github-dark",
}
