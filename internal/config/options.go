package config

// DisplayOptions control which parts of a code block are shown.
//
// Nil fields are unset and take their value from the defaults.
type DisplayOptions struct {
	LineNumbers     *bool `yaml:"lineNumbers,omitempty"`
	ShowLanguage    *bool `yaml:"showLanguage,omitempty"`
	CopyButton      *bool `yaml:"copyButton,omitempty"`
	WrapLines       *bool `yaml:"wrapLines,omitempty"`
	StartLineNumber *int  `yaml:"startLineNumber,omitempty"`

	// Extra classes for the container, pre, and code elements.
	ContainerClasses []string `yaml:"containerClasses,omitempty"`
	PreClasses       []string `yaml:"preClasses,omitempty"`
	CodeClasses      []string `yaml:"codeClasses,omitempty"`
}

// StyleOptions are the presentation tokens of a code block.
// Each becomes a CSS variable.
//
// Empty fields are unset.
type StyleOptions struct {
	BorderColor           string `yaml:"borderColor,omitempty"`
	BorderRadius          string `yaml:"borderRadius,omitempty"`
	Padding               string `yaml:"padding,omitempty"`
	FontFamily            string `yaml:"fontFamily,omitempty"`
	FontSize              string `yaml:"fontSize,omitempty"`
	LineHeight            string `yaml:"lineHeight,omitempty"`
	LineNumberMarginRight string `yaml:"lineNumberMarginRight,omitempty"`
	BackgroundColor       string `yaml:"backgroundColor,omitempty"`

	CopyButton CopyButtonStyle `yaml:"copyButton,omitempty"`

	// CSSVariables are raw variable overrides.
	// They're applied after everything else.
	CSSVariables map[string]string `yaml:"cssVariables,omitempty"`
}

// CopyButtonStyle holds the colors of the copy button.
// Dark variants apply when the page is in dark mode.
type CopyButtonStyle struct {
	BackgroundColor        string `yaml:"backgroundColor,omitempty"`
	Color                  string `yaml:"color,omitempty"`
	BorderColor            string `yaml:"borderColor,omitempty"`
	HoverBackgroundColor   string `yaml:"hoverBackgroundColor,omitempty"`
	HoverBorderColor       string `yaml:"hoverBorderColor,omitempty"`
	SuccessColor           string `yaml:"successColor,omitempty"`
	SuccessBackgroundColor string `yaml:"successBackgroundColor,omitempty"`
	SuccessBorderColor     string `yaml:"successBorderColor,omitempty"`

	BackgroundColorDark        string `yaml:"backgroundColorDark,omitempty"`
	ColorDark                  string `yaml:"colorDark,omitempty"`
	BorderColorDark            string `yaml:"borderColorDark,omitempty"`
	HoverBackgroundColorDark   string `yaml:"hoverBackgroundColorDark,omitempty"`
	HoverBorderColorDark       string `yaml:"hoverBorderColorDark,omitempty"`
	SuccessColorDark           string `yaml:"successColorDark,omitempty"`
	SuccessBackgroundColorDark string `yaml:"successBackgroundColorDark,omitempty"`
	SuccessBorderColorDark     string `yaml:"successBorderColorDark,omitempty"`
}

// NotationOptions style the lines marked by a notation.
type NotationOptions struct {
	// Style of the notation.
	// Only "border" is supported.
	Style string `yaml:"style,omitempty"`

	Highlight NotationKindOptions `yaml:"highlight,omitempty"`
	Add       NotationKindOptions `yaml:"add,omitempty"`
	Remove    NotationKindOptions `yaml:"remove,omitempty"`
}

// NotationKindOptions style the lines of one notation kind.
// Empty fields are unset.
type NotationKindOptions struct {
	BackgroundColor string `yaml:"backgroundColor,omitempty"`

	// BorderColor defaults to BackgroundColor without its alpha channel.
	BorderColor string `yaml:"borderColor,omitempty"`

	ClassName string `yaml:"className,omitempty"`
}
