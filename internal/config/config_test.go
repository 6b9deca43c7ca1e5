package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/themes"
	"go.abhg.dev/codefig/internal/transform"
)

func TestMergeDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give DisplayOptions
		want DisplayOptions
	}{
		{
			desc: "empty override",
			want: DefaultDisplay(),
		},
		{
			desc: "false wins over true",
			give: DisplayOptions{
				LineNumbers: ptr.Of(false),
				CopyButton:  ptr.Of(false),
			},
			want: DisplayOptions{
				LineNumbers:     ptr.Of(false),
				ShowLanguage:    ptr.Of(true),
				CopyButton:      ptr.Of(false),
				WrapLines:       ptr.Of(false),
				StartLineNumber: ptr.Of(1),
			},
		},
		{
			desc: "classes replaced",
			give: DisplayOptions{
				StartLineNumber: ptr.Of(10),
				PreClasses:      []string{"a", "b"},
			},
			want: DisplayOptions{
				LineNumbers:     ptr.Of(true),
				ShowLanguage:    ptr.Of(true),
				CopyButton:      ptr.Of(true),
				WrapLines:       ptr.Of(false),
				StartLineNumber: ptr.Of(10),
				PreClasses:      []string{"a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MergeDisplay(DefaultDisplay(), tt.give))
		})
	}
}

func TestMergeStyle(t *testing.T) {
	t.Parallel()

	base := DefaultStyle()
	base.CSSVariables = map[string]string{"--a": "1", "--b": "2"}

	got := MergeStyle(base, StyleOptions{
		Padding:    "2rem",
		CopyButton: CopyButtonStyle{Color: "red", ColorDark: "pink"},
		CSSVariables: map[string]string{
			"--b": "3",
			"--c": "4",
		},
	})

	assert.Equal(t, "2rem", got.Padding)
	assert.Equal(t, DefaultStyle().FontSize, got.FontSize)
	assert.Equal(t, "red", got.CopyButton.Color)
	assert.Equal(t, "pink", got.CopyButton.ColorDark)
	assert.Empty(t, got.CopyButton.BackgroundColor)
	assert.Equal(t, map[string]string{"--a": "1", "--b": "3", "--c": "4"}, got.CSSVariables)
	assert.Equal(t, "2", base.CSSVariables["--b"], "base must not be modified")
}

func TestMergeNotation(t *testing.T) {
	t.Parallel()

	got := MergeNotation(DefaultNotation(), NotationOptions{
		Add: NotationKindOptions{BorderColor: "green"},
		Remove: NotationKindOptions{
			BackgroundColor: "rgba(1, 2, 3, 0.5)",
			ClassName:       "gone",
		},
	})

	assert.Equal(t, "border", got.Style)
	assert.Equal(t, DefaultNotation().Highlight, got.Highlight)
	assert.Equal(t, NotationKindOptions{
		BackgroundColor: "rgba(0, 255, 0, 0.1)",
		BorderColor:     "green",
		ClassName:       "added",
	}, got.Add)
	assert.Equal(t, NotationKindOptions{
		BackgroundColor: "rgba(1, 2, 3, 0.5)",
		ClassName:       "gone",
	}, got.Remove)

	assert.Equal(t, got.Remove, got.Kind(transform.KindRemove))
	assert.Equal(t, got.Add, got.Kind(transform.KindAdd))
	assert.Equal(t, got.Highlight, got.Kind(transform.KindHighlight))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load(strings.NewReader(`
languages: [ts, lua, text]
themes:
  light: monokailight
display:
  lineNumbers: false
  startLineNumber: 3
  codeClasses: [x]
style:
  padding: 2rem
  cssVariables:
    "--codefig-extra": red
notation:
  add:
    className: plus
cache: false
`))
	require.NoError(t, err)

	assert.Equal(t, []langs.Spec{langs.Lang("ts"), langs.Lang("lua"), langs.Lang("text")}, cfg.Languages)
	assert.Equal(t, themes.Pair{Light: "monokailight"}, cfg.Themes)
	assert.Equal(t, themes.Pair{Light: "monokailight", Dark: DefaultThemes.Dark}, cfg.ThemePair())
	assert.Equal(t, ptr.Of(false), cfg.Display.LineNumbers)
	assert.Equal(t, ptr.Of(3), cfg.Display.StartLineNumber)
	assert.Equal(t, []string{"x"}, cfg.Display.CodeClasses)
	assert.Equal(t, "2rem", cfg.Style.Padding)
	assert.Equal(t, map[string]string{"--codefig-extra": "red"}, cfg.Style.CSSVariables)
	assert.Equal(t, "plus", cfg.Notation.Add.ClassName)
	assert.False(t, cfg.CacheEnabled())

	display := cfg.EffectiveDisplay()
	assert.False(t, *display.LineNumbers)
	assert.True(t, *display.ShowLanguage)
	assert.Equal(t, "added", DefaultNotation().Add.ClassName)
	assert.Equal(t, "plus", cfg.EffectiveNotation().Add.ClassName)
	assert.Equal(t, DefaultStyle().FontFamily, cfg.EffectiveStyle().FontFamily)
}

func TestLoad_empty(t *testing.T) {
	t.Parallel()

	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, DefaultThemes, cfg.ThemePair())
}

func TestLoad_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "unknown field", give: "colour: red", want: "field colour not found"},
		{desc: "bad language", give: "languages: [{a: b}]", want: "language must be a string"},
		{desc: "bad bool", give: "cache: maybe", want: "decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			_, err := Load(strings.NewReader(tt.give))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "codefig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disabled: true\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Disabled)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nope: 1\n"), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, bad)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cat := themes.Default()

	tests := []struct {
		desc string
		give Config
		want []string // empty for no error
	}{
		{desc: "zero"},
		{
			desc: "unknown themes",
			give: Config{Themes: themes.Pair{Light: "nope", Dark: "nah"}},
			want: []string{`themes.light: unknown theme "nope"`, `themes.dark: unknown theme "nah"`},
		},
		{
			desc: "notation style",
			give: Config{Notation: NotationOptions{Style: "symbol"}},
			want: []string{`notation.style: unsupported style "symbol"`},
		},
		{
			desc: "negative start",
			give: Config{Display: DisplayOptions{StartLineNumber: ptr.Of(-1)}},
			want: []string{"display.startLineNumber: must not be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			err := tt.give.Validate(cat)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, w := range tt.want {
				assert.ErrorContains(t, err, w)
			}
		})
	}
}

func TestConfig_NormalizeLanguages(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Languages: []langs.Spec{
			langs.Lang("golang"),
			langs.Lang("go"),
			langs.Lang("no-such-language"),
		},
	}
	diags := cfg.NormalizeLanguages(langs.Default())

	assert.Equal(t, []langs.Spec{langs.Lang("go")}, cfg.Languages)
	require.Len(t, diags, 1)
	assert.Equal(t, "no-such-language", diags[0].Input)
}
