package config

import (
	"maps"

	"go.abhg.dev/codefig/internal/ptr"
	"go.abhg.dev/codefig/internal/transform"
)

// MergeDisplay returns base with every field set in override replaced.
// Class lists are replaced, not appended to.
func MergeDisplay(base, override DisplayOptions) DisplayOptions {
	return DisplayOptions{
		LineNumbers:      ptr.First(override.LineNumbers, base.LineNumbers),
		ShowLanguage:     ptr.First(override.ShowLanguage, base.ShowLanguage),
		CopyButton:       ptr.First(override.CopyButton, base.CopyButton),
		WrapLines:        ptr.First(override.WrapLines, base.WrapLines),
		StartLineNumber:  ptr.First(override.StartLineNumber, base.StartLineNumber),
		ContainerClasses: orSlice(override.ContainerClasses, base.ContainerClasses),
		PreClasses:       orSlice(override.PreClasses, base.PreClasses),
		CodeClasses:      orSlice(override.CodeClasses, base.CodeClasses),
	}
}

// MergeStyle returns base with every field set in override replaced.
// CSS variables are merged key by key.
func MergeStyle(base, override StyleOptions) StyleOptions {
	vars := maps.Clone(base.CSSVariables)
	if len(override.CSSVariables) > 0 {
		if vars == nil {
			vars = make(map[string]string, len(override.CSSVariables))
		}
		maps.Copy(vars, override.CSSVariables)
	}

	b, o := base.CopyButton, override.CopyButton
	return StyleOptions{
		BorderColor:           or(override.BorderColor, base.BorderColor),
		BorderRadius:          or(override.BorderRadius, base.BorderRadius),
		Padding:               or(override.Padding, base.Padding),
		FontFamily:            or(override.FontFamily, base.FontFamily),
		FontSize:              or(override.FontSize, base.FontSize),
		LineHeight:            or(override.LineHeight, base.LineHeight),
		LineNumberMarginRight: or(override.LineNumberMarginRight, base.LineNumberMarginRight),
		BackgroundColor:       or(override.BackgroundColor, base.BackgroundColor),
		CopyButton: CopyButtonStyle{
			BackgroundColor:            or(o.BackgroundColor, b.BackgroundColor),
			Color:                      or(o.Color, b.Color),
			BorderColor:                or(o.BorderColor, b.BorderColor),
			HoverBackgroundColor:       or(o.HoverBackgroundColor, b.HoverBackgroundColor),
			HoverBorderColor:           or(o.HoverBorderColor, b.HoverBorderColor),
			SuccessColor:               or(o.SuccessColor, b.SuccessColor),
			SuccessBackgroundColor:     or(o.SuccessBackgroundColor, b.SuccessBackgroundColor),
			SuccessBorderColor:         or(o.SuccessBorderColor, b.SuccessBorderColor),
			BackgroundColorDark:        or(o.BackgroundColorDark, b.BackgroundColorDark),
			ColorDark:                  or(o.ColorDark, b.ColorDark),
			BorderColorDark:            or(o.BorderColorDark, b.BorderColorDark),
			HoverBackgroundColorDark:   or(o.HoverBackgroundColorDark, b.HoverBackgroundColorDark),
			HoverBorderColorDark:       or(o.HoverBorderColorDark, b.HoverBorderColorDark),
			SuccessColorDark:           or(o.SuccessColorDark, b.SuccessColorDark),
			SuccessBackgroundColorDark: or(o.SuccessBackgroundColorDark, b.SuccessBackgroundColorDark),
			SuccessBorderColorDark:     or(o.SuccessBorderColorDark, b.SuccessBorderColorDark),
		},
		CSSVariables: vars,
	}
}

// MergeNotation returns base with every field set in override replaced.
// Each kind is merged field by field.
func MergeNotation(base, override NotationOptions) NotationOptions {
	return NotationOptions{
		Style:     or(override.Style, base.Style),
		Highlight: mergeKind(base.Highlight, override.Highlight),
		Add:       mergeKind(base.Add, override.Add),
		Remove:    mergeKind(base.Remove, override.Remove),
	}
}

func mergeKind(base, override NotationKindOptions) NotationKindOptions {
	return NotationKindOptions{
		BackgroundColor: or(override.BackgroundColor, base.BackgroundColor),
		BorderColor:     or(override.BorderColor, base.BorderColor),
		ClassName:       or(override.ClassName, base.ClassName),
	}
}

// Kind returns the options for a notation kind.
func (n NotationOptions) Kind(k transform.Kind) NotationKindOptions {
	switch k {
	case transform.KindAdd:
		return n.Add
	case transform.KindRemove:
		return n.Remove
	default:
		return n.Highlight
	}
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func orSlice[T any](s, fallback []T) []T {
	if s != nil {
		return s
	}
	return fallback
}
