// Package style builds the CSS variables that style a rendered code block.
//
// Variables are named --codefig-*.
// They're set on the block's container element
// and consumed by the presentation layer's stylesheet.
package style

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.abhg.dev/codefig/internal/config"
)

// Variables returns the CSS variables for the given options.
//
// Options are merged over the defaults,
// so unset options take their default values.
// Notation border colors that aren't set are derived
// from the background color by dropping its alpha channel.
// Copy button variables are only included when set.
// style.CSSVariables is applied last and overrides everything else.
func Variables(style config.StyleOptions, notation config.NotationOptions) map[string]string {
	style = config.MergeStyle(config.DefaultStyle(), style)
	notation = config.MergeNotation(config.DefaultNotation(), notation)

	vars := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			vars["--codefig-"+name] = value
		}
	}

	set("border-color", style.BorderColor)
	set("border-radius", style.BorderRadius)
	set("padding", style.Padding)
	set("font-family", style.FontFamily)
	set("font-size", style.FontSize)
	set("line-height", style.LineHeight)
	set("line-number-margin-right", style.LineNumberMarginRight)
	set("background-color", style.BackgroundColor)

	for _, k := range []struct {
		name string
		opts config.NotationKindOptions
	}{
		{"highlight", notation.Highlight},
		{"add", notation.Add},
		{"remove", notation.Remove},
	} {
		set("notation-"+k.name+"-bg", k.opts.BackgroundColor)
		border := k.opts.BorderColor
		if border == "" {
			border = Opaque(k.opts.BackgroundColor)
		}
		set("notation-"+k.name+"-border", border)
	}

	cb := style.CopyButton
	set("copy-button-bg", cb.BackgroundColor)
	set("copy-button-color", cb.Color)
	set("copy-button-border", cb.BorderColor)
	set("copy-button-hover-bg", cb.HoverBackgroundColor)
	set("copy-button-hover-border", cb.HoverBorderColor)
	set("copy-success-color", cb.SuccessColor)
	set("copy-success-bg", cb.SuccessBackgroundColor)
	set("copy-success-border", cb.SuccessBorderColor)
	set("copy-button-bg-dark", cb.BackgroundColorDark)
	set("copy-button-color-dark", cb.ColorDark)
	set("copy-button-border-dark", cb.BorderColorDark)
	set("copy-button-hover-bg-dark", cb.HoverBackgroundColorDark)
	set("copy-button-hover-border-dark", cb.HoverBorderColorDark)
	set("copy-success-color-dark", cb.SuccessColorDark)
	set("copy-success-bg-dark", cb.SuccessBackgroundColorDark)
	set("copy-success-border-dark", cb.SuccessBorderColorDark)

	maps.Copy(vars, style.CSSVariables)
	return vars
}

// _rgbaPattern matches rgb() and rgba() calls.
// Group 1 is the argument list.
var _rgbaPattern = regexp.MustCompile(`rgba?\(([^)]*)\)`)

// Opaque drops the alpha channel from every rgb() or rgba() color in s,
// turning each into an rgb() color.
// Other text is left untouched,
// so colors nested in functions like light-dark() are handled too.
//
//	Opaque("rgba(0,255,0,0.1)")       == "rgb(0,255,0)"
//	Opaque("rgba(0, 255, 0, 0.1)")    == "rgb(0, 255, 0)"
//	Opaque("rgb(0 255 0 / 10%)")      == "rgb(0 255 0)"
func Opaque(s string) string {
	return _rgbaPattern.ReplaceAllStringFunc(s, func(m string) string {
		args := _rgbaPattern.FindStringSubmatch(m)[1]
		if i := strings.Index(args, "/"); i >= 0 {
			args = strings.TrimRight(args[:i], " ")
		} else if strings.Count(args, ",") >= 3 {
			args = args[:strings.LastIndex(args, ",")]
		}
		return "rgb(" + args + ")"
	})
}

// Declarations renders variables as the value of a style attribute.
// Declarations are sorted by name.
func Declarations(vars map[string]string) string {
	var sb strings.Builder
	for i, name := range slices.Sorted(maps.Keys(vars)) {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(vars[name])
		sb.WriteString(";")
	}
	return sb.String()
}
