// Package render renders code blocks into annotated HTML.
//
// A [Renderer] takes a [CodeBlockData] through the full pipeline:
// it resolves the block's language,
// makes sure the shared tokenizer has the language and themes it needs,
// tokenizes the code,
// runs the structural and notation stages over the result,
// and builds the CSS variables for the block.
package render

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"go.abhg.dev/codefig/internal/config"
	"go.abhg.dev/codefig/internal/hast"
	"go.abhg.dev/codefig/internal/highlight"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/style"
	"go.abhg.dev/codefig/internal/themes"
	"go.abhg.dev/codefig/internal/transform"
)

// CodeBlockData is a single code block to render.
//
// Optional fields left unset take their values from the configuration.
type CodeBlockData struct {
	// Language of the code. Aliases are accepted.
	Language string

	// Code to render.
	Code string

	// FileName shown in the caption, if any.
	FileName string

	// NotationType is one of "add", "remove", or "highlight".
	// NotationRange lists the lines it applies to,
	// as line numbers "N" or inclusive ranges "A-B".
	// No notation is applied unless both are set.
	NotationType  string
	NotationRange []string

	// Themes to render with.
	LightTheme string
	DarkTheme  string

	ShowLineNumbers   *bool
	ShowLanguageLabel *bool
	StartLineNumber   *int
	Wrap              *bool
}

// Renderer renders code blocks.
//
// Build one with [New].
// A Renderer is safe for concurrent use.
type Renderer struct {
	// Config holds the renderer's configuration.
	// It must not be modified after the first render.
	Config *config.Config

	// Cache provides tokenizers.
	// If unset, one is built from Config on first use.
	Cache *highlight.Cache

	// Languages resolves language names.
	// Defaults to [langs.Default].
	Languages *langs.Catalog

	// Themes lists the themes the tokenizer loads up front.
	// Defaults to [themes.Default].
	Themes *themes.Catalog

	// Log receives warnings and debug messages.
	// Defaults to discarding them.
	Log *log.Logger

	// Diagnostics reported while normalizing the configured languages.
	Diagnostics []langs.Diagnostic

	cacheOnce sync.Once
}

// Options customize a [Renderer] built with [New].
type Options struct {
	// Languages, Themes, and Log are as on [Renderer].
	Languages *langs.Catalog
	Themes    *themes.Catalog
	Log       *log.Logger
}

// New validates a configuration and builds a renderer for it.
//
// The configured languages are normalized against the language catalog.
// Languages that aren't supported are dropped,
// logged, and recorded in Renderer.Diagnostics.
// cfg is modified in place.
func New(cfg *config.Config, opts Options) (*Renderer, error) {
	if cfg == nil {
		return nil, errtrace.Wrap(config.ErrNoConfig)
	}

	r := &Renderer{
		Config:    cfg,
		Languages: opts.Languages,
		Themes:    opts.Themes,
		Log:       opts.Log,
	}
	if err := cfg.Validate(r.themes()); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("invalid configuration: %w", err))
	}

	r.Diagnostics = cfg.NormalizeLanguages(r.languages())
	langs.LogDiagnostics(r.logger(), r.Diagnostics)
	r.Cache = NewCache(cfg, r.languages(), r.themes(), r.logger())
	return r, nil
}

// NewCache builds a tokenizer cache for a configuration.
//
// The cache loads the configured languages,
// and every theme in the theme catalog
// along with the configured theme pair.
func NewCache(cfg *config.Config, languages *langs.Catalog, themeCat *themes.Catalog, logger *log.Logger) *highlight.Cache {
	themeIDs := themeCat.IDs()
	for _, id := range cfg.ThemePair().IDs() {
		if !slices.Contains(themeIDs, id) {
			themeIDs = append(themeIDs, id)
		}
	}

	return &highlight.Cache{
		Loader:    &highlight.CatalogLoader{Languages: languages},
		Languages: cfg.Languages,
		Themes:    themeIDs,
		Disabled:  !cfg.CacheEnabled(),
		OnCreate:  cfg.Hooks.OnTokenizerCreate,
		Log:       logger,
	}
}

// Result is a rendered code block.
type Result struct {
	// HTML of the block.
	HTML string

	// Variables are the CSS variables for the block's container.
	Variables map[string]string

	// Tree is the syntax tree HTML was rendered from.
	Tree *hast.Tree

	// Code that was rendered, as a copy button copies it.
	// Escape sequences are removed from "ansi" blocks.
	Code string

	// CopyButton reports whether the block gets a copy button.
	CopyButton bool

	// ContainerClasses are extra classes for the container.
	ContainerClasses []string
}

// Render renders a single code block.
//
// A render either succeeds completely or returns an error:
// a partially rendered block is never returned.
func (r *Renderer) Render(ctx context.Context, data *CodeBlockData) (*Result, error) {
	cfg := r.Config
	switch {
	case cfg == nil:
		return nil, errtrace.Wrap(config.ErrNoConfig)
	case cfg.Disabled:
		return nil, errtrace.Wrap(config.ErrDisabled)
	}

	display := config.MergeDisplay(cfg.EffectiveDisplay(), config.DisplayOptions{
		LineNumbers:     data.ShowLineNumbers,
		ShowLanguage:    data.ShowLanguageLabel,
		WrapLines:       data.Wrap,
		StartLineNumber: data.StartLineNumber,
	})
	defaults := cfg.ThemePair()
	pair := themes.Pair{
		Light: or(data.LightTheme, defaults.Light),
		Dark:  or(data.DarkTheme, defaults.Dark),
	}

	if hook := cfg.Hooks.BeforeRender; hook != nil {
		if err := hook(ctx, data.Code, data.Language); err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("before render: %w", err))
		}
	}

	lang, err := r.languages().ResolveRequest(data.Language, cfg.Languages)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	req := highlight.Request{Themes: pair.IDs()}
	if !lang.Special {
		req.Languages = []langs.Spec{lang.Spec}
	}
	tok, err := r.cache().Get(ctx, req)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	tree, err := tok.Tokenize(data.Code, lang.ID(), pair)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	pipeline, err := r.pipeline(data, lang, display)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := pipeline.Run(tree); err != nil {
		return nil, errtrace.Wrap(err)
	}

	html, err := tree.HTML()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if hook := cfg.Hooks.AfterRender; hook != nil {
		if err := hook(ctx, html, data.Code, lang.ID()); err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("after render: %w", err))
		}
	}

	code := data.Code
	if strings.EqualFold(lang.ID(), "ansi") {
		code = ansi.Strip(code)
	}

	return &Result{
		HTML:             html,
		Variables:        style.Variables(cfg.Style, cfg.Notation),
		Tree:             tree,
		Code:             code,
		CopyButton:       ptr.Or(display.CopyButton, true),
		ContainerClasses: display.ContainerClasses,
	}, nil
}

func (r *Renderer) pipeline(data *CodeBlockData, lang langs.Resolved, display config.DisplayOptions) (transform.Pipeline, error) {
	p := transform.Pipeline{
		&transform.Structure{
			FileName:          data.FileName,
			Language:          lang,
			Labels:            r.languages(),
			ShowLanguageLabel: ptr.Or(display.ShowLanguage, true),
			ShowLineNumbers:   ptr.Or(display.LineNumbers, true),
			StartLineNumber:   ptr.Or(display.StartLineNumber, 1),
			Wrap:              ptr.Or(display.WrapLines, false),
			PreClasses:        display.PreClasses,
			CodeClasses:       display.CodeClasses,
		},
	}

	if data.NotationType != "" && len(data.NotationRange) > 0 {
		kind, err := transform.ParseKind(data.NotationType)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}

		notation := r.Config.EffectiveNotation()
		opts := notation.Kind(kind)
		p = append(p, &transform.Notation{
			Kind:            kind,
			Lines:           transform.ParseRanges(data.NotationRange),
			ClassName:       opts.ClassName,
			BackgroundColor: opts.BackgroundColor,
			Style:           notation.Style,
		})
	}

	return append(p, r.Config.Transformers...), nil
}

func (r *Renderer) cache() *highlight.Cache {
	r.cacheOnce.Do(func() {
		if r.Cache == nil {
			r.Cache = NewCache(r.Config, r.languages(), r.themes(), r.logger())
		}
	})
	return r.Cache
}

func (r *Renderer) languages() *langs.Catalog {
	if r.Languages != nil {
		return r.Languages
	}
	return langs.Default()
}

func (r *Renderer) themes() *themes.Catalog {
	if r.Themes != nil {
		return r.Themes
	}
	return themes.Default()
}

func (r *Renderer) logger() *log.Logger {
	if r.Log != nil {
		return r.Log
	}
	return _discardLog
}

var _discardLog = log.New(io.Discard)

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
