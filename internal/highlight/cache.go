package highlight

import (
	"context"
	"io"
	"slices"
	"sync"

	"braces.dev/errtrace"
	"github.com/charmbracelet/log"
	"go.abhg.dev/codefig/internal/langs"
	"golang.org/x/sync/singleflight"
)

// _flightKey is the single singleflight key
// under which all creations and extensions run.
const _flightKey = "tokenizer"

// Request lists the assets a render needs from a [Tokenizer].
type Request struct {
	// Languages that must be loaded.
	// Special languages are ignored.
	Languages []langs.Spec

	// Themes that must be loaded.
	Themes []string

	// NoCache requests a private tokenizer
	// that is neither read from nor stored in the cache.
	NoCache bool
}

// Cache shares a single [Tokenizer] between render requests.
//
// The tokenizer is built on the first call to Get
// with all configured languages and themes.
// Requests that need an asset the tokenizer doesn't have
// extend it with a copy that has the old and new assets.
// Extension is additive: assets are never unloaded.
//
// At most one creation or extension is in flight at a time.
// Concurrent callers that need the same assets share the flight.
//
// The zero value is a usable cache with no configured assets
// that loads from the default catalogs.
type Cache struct {
	// Loader loads languages and themes.
	// Defaults to a [CatalogLoader] over the default catalogs.
	Loader Loader

	// Languages and Themes are loaded when the tokenizer is first built.
	Languages []langs.Spec
	Themes    []string

	// Disabled turns off caching.
	// Every call to Get builds a private tokenizer.
	Disabled bool

	// OnCreate, if set, is called once after every successful
	// creation or extension of a tokenizer,
	// including private ones.
	OnCreate func(*Tokenizer)

	// Log receives debug messages about tokenizer builds.
	// Defaults to discarding them.
	Log *log.Logger

	mu      sync.RWMutex
	current *Tokenizer // nil until first built

	flights singleflight.Group
}

// Current returns the cached tokenizer,
// or nil if none has been built yet.
func (c *Cache) Current() *Tokenizer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Get returns a tokenizer that has every language and theme
// named in the request, building or extending it if needed.
//
// If ctx is cancelled while a build is in flight,
// Get returns early with the context error
// but the build runs to completion so that other callers can use it.
// Failed builds leave the cache unchanged,
// and the next call retries them.
func (c *Cache) Get(ctx context.Context, req Request) (*Tokenizer, error) {
	req.Languages = withoutSpecial(req.Languages)
	if c.Disabled || req.NoCache {
		return c.private(ctx, req)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, errtrace.Wrap(err)
		}
		if tok := c.Current(); tok.covers(req) {
			return tok, nil
		}

		// The flight must outlive this caller.
		flightCtx := context.WithoutCancel(ctx)
		ch := c.flights.DoChan(_flightKey, func() (any, error) {
			return c.grow(flightCtx, req)
		})

		select {
		case <-ctx.Done():
			return nil, errtrace.Wrap(ctx.Err())

		case res := <-ch:
			if res.Err != nil {
				return nil, errtrace.Wrap(res.Err)
			}
			if tok := res.Val.(*Tokenizer); tok.covers(req) {
				return tok, nil
			}
			// We joined a flight started for a different request.
			// Try again with ours.
		}
	}
}

// grow builds or extends the cached tokenizer to cover req.
// It runs inside a flight.
func (c *Cache) grow(ctx context.Context, req Request) (*Tokenizer, error) {
	base := c.Current()
	if base.covers(req) {
		// Another flight got here first.
		return base, nil
	}

	languages, themes := req.Languages, req.Themes
	if base == nil {
		languages = slices.Concat(withoutSpecial(c.Languages), languages)
		themes = slices.Concat(c.Themes, themes)
	}

	tok, err := c.load(ctx, base, languages, themes)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	c.mu.Lock()
	c.current = tok
	c.mu.Unlock()

	if base == nil {
		c.logger().Debug("created tokenizer",
			"languages", len(tok.lexers), "themes", len(tok.styles))
	} else {
		c.logger().Debug("extended tokenizer",
			"languages", len(tok.lexers), "themes", len(tok.styles))
	}
	c.created(tok)
	return tok, nil
}

// private builds a tokenizer for a single request.
func (c *Cache) private(ctx context.Context, req Request) (*Tokenizer, error) {
	tok, err := c.load(ctx, nil,
		slices.Concat(withoutSpecial(c.Languages), req.Languages),
		slices.Concat(c.Themes, req.Themes),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	c.logger().Debug("built private tokenizer",
		"languages", len(tok.lexers), "themes", len(tok.styles))
	c.created(tok)
	return tok, nil
}

// load returns a copy of base with the given assets added.
// base is not modified, and nothing is returned on failure.
func (c *Cache) load(ctx context.Context, base *Tokenizer, languages []langs.Spec, themes []string) (*Tokenizer, error) {
	loader := c.Loader
	if loader == nil {
		loader = new(CatalogLoader)
	}

	tok := base.clone()
	for _, spec := range languages {
		if _, ok := tok.lexers[spec.ID]; ok {
			continue
		}
		lexer, err := loader.LoadLanguage(ctx, spec)
		if err != nil {
			return nil, errtrace.Wrap(&AssetLoadError{Kind: AssetLanguage, ID: spec.ID, Err: err})
		}
		tok.lexers[spec.ID] = lexer
	}

	for _, id := range themes {
		if _, ok := tok.styles[id]; ok {
			continue
		}
		style, err := loader.LoadTheme(ctx, id)
		if err != nil {
			return nil, errtrace.Wrap(&AssetLoadError{Kind: AssetTheme, ID: id, Err: err})
		}
		tok.styles[id] = style
	}

	return tok, nil
}

func (c *Cache) created(tok *Tokenizer) {
	if c.OnCreate != nil {
		c.OnCreate(tok)
	}
}

func (c *Cache) logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return _discardLog
}

var _discardLog = log.New(io.Discard)

func withoutSpecial(specs []langs.Spec) []langs.Spec {
	return slices.DeleteFunc(slices.Clone(specs), func(s langs.Spec) bool {
		return langs.IsSpecial(s.ID)
	})
}
