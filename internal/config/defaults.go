package config

import (
	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/themes"
	"go.abhg.dev/codefig/internal/transform"
)

// DefaultThemes is the theme pair used when none is configured.
var DefaultThemes = themes.DefaultPair

// DefaultDisplay returns the default display options.
func DefaultDisplay() DisplayOptions {
	return DisplayOptions{
		LineNumbers:     ptr.Of(true),
		ShowLanguage:    ptr.Of(true),
		CopyButton:      ptr.Of(true),
		WrapLines:       ptr.Of(false),
		StartLineNumber: ptr.Of(1),
	}
}

// DefaultStyle returns the default style options.
func DefaultStyle() StyleOptions {
	return StyleOptions{
		BorderColor:           "light-dark(#e1e4e8, #30363d)",
		BorderRadius:          "6px",
		Padding:               "1rem",
		FontFamily:            "Consolas, Monaco, 'Andale Mono', 'Ubuntu Mono', monospace",
		FontSize:              "14px",
		LineHeight:            "1.5",
		LineNumberMarginRight: "0.5rem",
	}
}

// DefaultNotation returns the default notation options.
// Border colors are left unset so that they follow the backgrounds.
func DefaultNotation() NotationOptions {
	return NotationOptions{
		Style: transform.DefaultNotationStyle,
		Highlight: NotationKindOptions{
			BackgroundColor: "rgba(255, 255, 0, 0.1)",
			ClassName:       transform.KindHighlight.DefaultClass(),
		},
		Add: NotationKindOptions{
			BackgroundColor: "rgba(0, 255, 0, 0.1)",
			ClassName:       transform.KindAdd.DefaultClass(),
		},
		Remove: NotationKindOptions{
			BackgroundColor: "rgba(255, 0, 0, 0.1)",
			ClassName:       transform.KindRemove.DefaultClass(),
		},
	}
}
