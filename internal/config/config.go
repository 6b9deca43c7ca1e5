// Package config holds the configuration of the code block renderer:
// the language allow-list, themes, option defaults, and hooks.
//
// Configuration is normally loaded once at startup from YAML
// with [Load] or [LoadFile],
// after which it must be treated as read-only.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/errdefer"
	"go.abhg.dev/codefig/internal/highlight"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/themes"
	"go.abhg.dev/codefig/internal/transform"
	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when a render is attempted
// without a configuration.
var ErrNoConfig = errors.New("no configuration available")

// ErrDisabled is returned when a render is attempted
// while the renderer is disabled.
var ErrDisabled = errors.New("code rendering is disabled")

// Config configures the code block renderer.
type Config struct {
	// Disabled turns off rendering entirely.
	Disabled bool `yaml:"disabled,omitempty"`

	// Languages is the allow-list of languages
	// loaded when the tokenizer is first built.
	// Other languages are loaded on demand.
	Languages []langs.Spec `yaml:"languages,omitempty"`

	// Themes is the default theme pair.
	Themes themes.Pair `yaml:"themes,omitempty"`

	Display  DisplayOptions  `yaml:"display,omitempty"`
	Style    StyleOptions    `yaml:"style,omitempty"`
	Notation NotationOptions `yaml:"notation,omitempty"`

	// Cache shares one tokenizer between renders.
	// Defaults to true.
	Cache *bool `yaml:"cache,omitempty"`

	// Hooks run around tokenizer creation and rendering.
	Hooks Hooks `yaml:"-"`

	// Transformers are extra stages run after the built-in ones.
	Transformers []transform.Stage `yaml:"-"`
}

// Hooks are callbacks into the renderer's lifecycle.
// All hooks are optional.
type Hooks struct {
	// OnTokenizerCreate is called after every successful
	// creation or extension of a tokenizer.
	OnTokenizerCreate func(*highlight.Tokenizer)

	// BeforeRender is called before a block is tokenized.
	// An error aborts the render.
	BeforeRender func(ctx context.Context, code, lang string) error

	// AfterRender is called with the rendered HTML of a block.
	// An error aborts the render.
	AfterRender func(ctx context.Context, html, code, lang string) error
}

// CacheEnabled reports whether tokenizers are shared between renders.
func (c *Config) CacheEnabled() bool {
	return ptr.Or(c.Cache, true)
}

// ThemePair returns the configured theme pair,
// filling in unset themes from [DefaultThemes].
func (c *Config) ThemePair() themes.Pair {
	return themes.Pair{
		Light: or(c.Themes.Light, DefaultThemes.Light),
		Dark:  or(c.Themes.Dark, DefaultThemes.Dark),
	}
}

// EffectiveDisplay returns the display options merged over the defaults.
func (c *Config) EffectiveDisplay() DisplayOptions {
	return MergeDisplay(DefaultDisplay(), c.Display)
}

// EffectiveStyle returns the style options merged over the defaults.
func (c *Config) EffectiveStyle() StyleOptions {
	return MergeStyle(DefaultStyle(), c.Style)
}

// EffectiveNotation returns the notation options merged over the defaults.
func (c *Config) EffectiveNotation() NotationOptions {
	return MergeNotation(DefaultNotation(), c.Notation)
}

// NormalizeLanguages replaces the language allow-list
// with its normalized form against the given catalog,
// and returns diagnostics for the languages that were dropped.
func (c *Config) NormalizeLanguages(cat *langs.Catalog) []langs.Diagnostic {
	var diags []langs.Diagnostic
	c.Languages, diags = langs.Normalize(cat, c.Languages)
	return diags
}

// Validate reports problems with the configuration.
// Theme names are checked against the given catalog.
func (c *Config) Validate(cat *themes.Catalog) error {
	var errs []error

	pair := c.ThemePair()
	if _, ok := cat.Lookup(pair.Light); !ok {
		errs = append(errs, fmt.Errorf("themes.light: unknown theme %q", pair.Light))
	}
	if _, ok := cat.Lookup(pair.Dark); !ok {
		errs = append(errs, fmt.Errorf("themes.dark: unknown theme %q", pair.Dark))
	}

	if s := c.Notation.Style; s != "" && s != transform.DefaultNotationStyle {
		errs = append(errs, fmt.Errorf("notation.style: unsupported style %q", s))
	}

	if n := c.Display.StartLineNumber; n != nil && *n < 0 {
		errs = append(errs, fmt.Errorf("display.startLineNumber: must not be negative, got %d", *n))
	}

	return errtrace.Wrap(errors.Join(errs...))
}

// Load decodes a configuration from YAML.
// Unknown fields are an error.
// An empty document yields the zero configuration.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errtrace.Wrap(fmt.Errorf("decode config: %w", err))
	}
	return &cfg, nil
}

// LoadFile loads a configuration from a YAML file.
func LoadFile(path string) (_ *Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	cfg, err := Load(f)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("%v: %w", path, err))
	}
	return cfg, nil
}
