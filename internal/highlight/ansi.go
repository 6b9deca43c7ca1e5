package highlight

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ansiLanguage is the special language for terminal output.
// Its SGR escape sequences become styled spans.
const ansiLanguage = "ansi"

func isANSI(lang string) bool {
	return strings.EqualFold(lang, ansiLanguage)
}

// Basic terminal colors 0-15 for light and dark backgrounds.
var (
	_ansiLight = [16]string{
		"#000000", "#cd3131", "#00bc00", "#949800",
		"#0451a5", "#bc05bc", "#0598bc", "#555555",
		"#666666", "#cd3131", "#14ce14", "#b5ba00",
		"#0451a5", "#bc05bc", "#0598bc", "#a5a5a5",
	}
	_ansiDark = [16]string{
		"#000000", "#cd3131", "#0dbc79", "#e5e510",
		"#2472c8", "#bc3fbc", "#11a8cd", "#e5e5e5",
		"#666666", "#f14c4c", "#23d18b", "#f5f543",
		"#3b8eea", "#d670d6", "#29b8db", "#e5e5e5",
	}
)

// ansiStyle is the set of SGR attributes in effect.
// Colors are CSS values; empty means the theme's default.
type ansiStyle struct {
	fg, bg    string
	bold      bool
	dim       bool
	italic    bool
	underline bool
	strike    bool
}

// CSS returns inline style declarations for s,
// or an empty string if s is the default style.
func (s ansiStyle) CSS() string {
	var decls []string
	if s.fg != "" {
		decls = append(decls, "color:"+s.fg)
	}
	if s.bg != "" {
		decls = append(decls, "background-color:"+s.bg)
	}
	if s.bold {
		decls = append(decls, "font-weight:bold")
	}
	if s.dim {
		decls = append(decls, "opacity:0.5")
	}
	if s.italic {
		decls = append(decls, "font-style:italic")
	}
	switch {
	case s.underline && s.strike:
		decls = append(decls, "text-decoration:underline line-through")
	case s.underline:
		decls = append(decls, "text-decoration:underline")
	case s.strike:
		decls = append(decls, "text-decoration:line-through")
	}
	return strings.Join(decls, ";")
}

// ansiSpan is a run of text printed with one style.
type ansiSpan struct {
	Text  string
	Style ansiStyle
}

// ansiLines splits terminal output into lines of styled spans.
//
// src must already be normalized.
// SGR sequences ("ESC [ ... m") update the style,
// which carries over to following lines as it does in a terminal.
// All other escape sequences and control characters except tab
// are dropped.
func ansiLines(src string) [][]ansiSpan {
	var (
		lines  = make([][]ansiSpan, 1, strings.Count(src, "\n")+1)
		style  ansiStyle
		text   strings.Builder
		state  byte
		parser = ansi.NewParser()
	)

	flush := func() {
		if text.Len() == 0 {
			return
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], ansiSpan{Text: text.String(), Style: style})
		text.Reset()
	}

	for len(src) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(src, state, parser)
		state = newState
		src = src[n:]

		switch {
		case seq == "\n":
			flush()
			lines = append(lines, nil)

		case seq == "\t":
			text.WriteString(seq)

		case isEscape(seq):
			cmd := ansi.Cmd(parser.Command())
			if cmd.Final() == 'm' && cmd.Prefix() == 0 && cmd.Intermediate() == 0 {
				flush()
				style = applySGR(style, parser.Params())
			}

		case len(seq) == 1 && (seq[0] < 0x20 || seq[0] >= 0x7f):
			// Control characters and stray bytes.

		default:
			text.WriteString(seq)
		}
	}
	flush()
	return lines
}

// isEscape reports whether seq is an escape sequence
// rather than printable text.
func isEscape(seq string) bool {
	if seq == "" {
		return false
	}
	switch seq[0] {
	case ansi.ESC, ansi.CSI, ansi.DCS, ansi.OSC, ansi.APC, ansi.SOS, ansi.PM:
		return true
	}
	return false
}

// applySGR returns s updated with the given SGR parameters.
func applySGR(s ansiStyle, params ansi.Params) ansiStyle {
	if len(params) == 0 {
		return ansiStyle{}
	}

	for i := 0; i < len(params); i++ {
		switch code := params[i].Param(0); {
		case code == 0:
			s = ansiStyle{}
		case code == 1:
			s.bold = true
		case code == 2:
			s.dim = true
		case code == 3:
			s.italic = true
		case code == 4:
			s.underline = true
		case code == 9:
			s.strike = true
		case code == 22:
			s.bold, s.dim = false, false
		case code == 23:
			s.italic = false
		case code == 24:
			s.underline = false
		case code == 29:
			s.strike = false
		case code >= 30 && code <= 37:
			s.fg = basicColor(code - 30)
		case code == 38:
			var c string
			c, i = extendedColor(params, i)
			if c != "" {
				s.fg = c
			}
		case code == 39:
			s.fg = ""
		case code >= 40 && code <= 47:
			s.bg = basicColor(code - 40)
		case code == 48:
			var c string
			c, i = extendedColor(params, i)
			if c != "" {
				s.bg = c
			}
		case code == 49:
			s.bg = ""
		case code >= 90 && code <= 97:
			s.fg = basicColor(code - 90 + 8)
		case code >= 100 && code <= 107:
			s.bg = basicColor(code - 100 + 8)
		}
	}
	return s
}

// extendedColor reads a "38;5;N" or "38;2;R;G;B" color
// whose introducer is at params[i].
// It returns the color and the index of the last parameter consumed.
func extendedColor(params ansi.Params, i int) (string, int) {
	mode, _, ok := params.Param(i+1, -1)
	if !ok {
		return "", i
	}

	switch mode {
	case 5:
		n, _, ok := params.Param(i+2, -1)
		if !ok || n < 0 || n > 255 {
			return "", i + 2
		}
		return indexedColor(n), i + 2
	case 2:
		r, _, okR := params.Param(i+3, -1)
		g, _, okG := params.Param(i+4, -1)
		b, _, okB := params.Param(i+5, -1)
		if !okR || !okG || !okB || !isByte(r) || !isByte(g) || !isByte(b) {
			return "", min(i+5, len(params)-1)
		}
		return rgb(r, g, b), i + 5
	default:
		return "", i + 1
	}
}

// basicColor returns the CSS color for one of the 16 basic colors.
func basicColor(n int) string {
	return lightDark(_ansiLight[n], _ansiDark[n])
}

// indexedColor returns the CSS color for an xterm 256-color index.
func indexedColor(n int) string {
	switch {
	case n < 16:
		return basicColor(n)
	case n < 232:
		n -= 16
		return rgb(cubeLevel(n/36), cubeLevel(n/6%6), cubeLevel(n%6))
	default:
		v := 8 + 10*(n-232)
		return rgb(v, v, v)
	}
}

func cubeLevel(n int) int {
	if n == 0 {
		return 0
	}
	return 55 + 40*n
}

func rgb(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func isByte(n int) bool {
	return n >= 0 && n <= 255
}
