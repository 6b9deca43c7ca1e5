package highlight

import (
	"context"
	"errors"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"go.abhg.dev/codefig/internal/langs"
)

// ErrNotFound indicates that a loader has no asset with the given id.
var ErrNotFound = errors.New("not found")

// Loader loads the assets a [Tokenizer] is built from.
//
// Loaders are called with no locks held,
// and may be called concurrently for different assets.
type Loader interface {
	// LoadLanguage returns the lexer for a language.
	LoadLanguage(ctx context.Context, spec langs.Spec) (chroma.Lexer, error)

	// LoadTheme returns the style for a theme.
	LoadTheme(ctx context.Context, id string) (*chroma.Style, error)
}

// CatalogLoader loads languages from a language catalog
// and themes from a registry of Chroma styles.
type CatalogLoader struct {
	// Languages to load from.
	// Defaults to [langs.Default].
	Languages *langs.Catalog

	// Styles maps theme ids to styles.
	// Defaults to the Chroma style registry.
	Styles map[string]*chroma.Style
}

var _ Loader = (*CatalogLoader)(nil)

// LoadLanguage returns the lexer of a custom registration,
// or the catalog lexer for a language id.
func (l *CatalogLoader) LoadLanguage(_ context.Context, spec langs.Spec) (chroma.Lexer, error) {
	if spec.IsCustom() {
		return chroma.Coalesce(spec.Lexer), nil
	}

	cat := l.Languages
	if cat == nil {
		cat = langs.Default()
	}
	e, ok := cat.Lookup(cat.Resolve(spec.ID))
	if !ok || e.Lexer == nil {
		return nil, errtrace.Wrap(ErrNotFound)
	}
	return chroma.Coalesce(e.Lexer), nil
}

// LoadTheme returns the style registered under id.
func (l *CatalogLoader) LoadTheme(_ context.Context, id string) (*chroma.Style, error) {
	reg := l.Styles
	if reg == nil {
		reg = styles.Registry
	}
	s, ok := reg[id]
	if !ok {
		return nil, errtrace.Wrap(ErrNotFound)
	}
	return s, nil
}
