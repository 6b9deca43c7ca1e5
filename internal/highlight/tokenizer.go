package highlight

import (
	"maps"
	"slices"
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"go.abhg.dev/codefig/internal/hast"
	"go.abhg.dev/codefig/internal/langs"
	"go.abhg.dev/codefig/internal/themes"
	"golang.org/x/net/html"
)

// Tokenizer turns source code into themed syntax trees.
//
// A Tokenizer is immutable once built.
// It's safe for concurrent use.
type Tokenizer struct {
	lexers map[string]chroma.Lexer  // language id -> lexer
	styles map[string]*chroma.Style // theme id -> style
}

func newTokenizer() *Tokenizer {
	return &Tokenizer{
		lexers: make(map[string]chroma.Lexer),
		styles: make(map[string]*chroma.Style),
	}
}

// clone returns a copy of t that may be modified
// without affecting t.
func (t *Tokenizer) clone() *Tokenizer {
	if t == nil {
		return newTokenizer()
	}
	return &Tokenizer{
		lexers: maps.Clone(t.lexers),
		styles: maps.Clone(t.styles),
	}
}

// Languages returns the sorted ids of the loaded languages.
func (t *Tokenizer) Languages() []string {
	return slices.Sorted(maps.Keys(t.lexers))
}

// Themes returns the sorted ids of the loaded themes.
func (t *Tokenizer) Themes() []string {
	return slices.Sorted(maps.Keys(t.styles))
}

// HasLanguage reports whether the language with the given id is loaded.
// Special languages are always available.
func (t *Tokenizer) HasLanguage(id string) bool {
	if langs.IsSpecial(id) {
		return true
	}
	_, ok := t.lexers[id]
	return ok
}

// HasTheme reports whether the theme with the given id is loaded.
func (t *Tokenizer) HasTheme(id string) bool {
	_, ok := t.styles[id]
	return ok
}

// covers reports whether t has everything req asks for.
func (t *Tokenizer) covers(req Request) bool {
	if t == nil {
		return false
	}
	for _, l := range req.Languages {
		if !t.HasLanguage(l.ID) {
			return false
		}
	}
	for _, id := range req.Themes {
		if !t.HasTheme(id) {
			return false
		}
	}
	return true
}

// Tokenize builds a syntax tree for code in the given language.
//
// lang must be a loaded language id or a special language.
// Special languages produce unstyled text,
// except "ansi" which is styled by its SGR escape sequences.
// Both themes of the pair must be loaded.
//
// The tree has the shape:
//
//	pre.codefig[style][tabindex=0][data-language]
//	  code
//	    span.line (one per source line, separated by newlines)
//	      span[style] (one per styled token)
//
// Tokens without styling of their own are added as plain text.
// CRLF line endings are normalized,
// and a trailing newline does not produce an extra line.
func (t *Tokenizer) Tokenize(code, lang string, pair themes.Pair) (*hast.Tree, error) {
	light, ok := t.styles[pair.Light]
	if !ok {
		return nil, errtrace.Errorf("theme %q is not loaded", pair.Light)
	}
	dark, ok := t.styles[pair.Dark]
	if !ok {
		return nil, errtrace.Errorf("theme %q is not loaded", pair.Dark)
	}

	code = normalizeSource(code)
	p := newPalette(light, dark)

	var lines [][]*html.Node
	switch {
	case isANSI(lang):
		for _, spans := range ansiLines(code) {
			nodes := make([]*html.Node, len(spans))
			for i, span := range spans {
				nodes[i] = styledSpan(span.Text, span.Style.CSS())
			}
			lines = append(lines, nodes)
		}

	case langs.IsSpecial(lang):
		for _, tokens := range plainLines(code) {
			nodes := make([]*html.Node, len(tokens))
			for i, tok := range tokens {
				nodes[i] = styledSpan(tok.Value, "")
			}
			lines = append(lines, nodes)
		}

	default:
		lexer, ok := t.lexers[lang]
		if !ok {
			return nil, errtrace.Errorf("language %q is not loaded", lang)
		}

		tokenLines, err := lexLines(lexer, code)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		for _, tokens := range tokenLines {
			nodes := make([]*html.Node, len(tokens))
			for i, tok := range tokens {
				nodes[i] = p.token(tok)
			}
			lines = append(lines, nodes)
		}
	}

	pre := hast.Element("pre",
		hast.Attr("class", "codefig"),
		hast.Attr("style", p.preStyle()),
		hast.Attr("tabindex", "0"),
		hast.Attr("data-language", lang),
	)
	codeNode := hast.Element("code")
	pre.AppendChild(codeNode)

	tree := hast.New(pre, codeNode)
	for _, nodes := range lines {
		line := hast.Element("span", hast.Attr("class", "line"))
		for _, n := range nodes {
			line.AppendChild(n)
		}
		tree.AddLine(line)
	}
	return tree, nil
}

// styledSpan wraps text in a span with the given inline style.
// An empty style adds no attribute.
func styledSpan(text, style string) *html.Node {
	var span *html.Node
	if style == "" {
		span = hast.Element("span")
	} else {
		span = hast.Element("span", hast.Attr("style", style))
	}
	span.AppendChild(hast.Text(text))
	return span
}

// palette renders token styles for a light and dark theme pair.
type palette struct {
	light, dark *chroma.Style
}

func newPalette(light, dark *chroma.Style) *palette {
	return &palette{light: light, dark: dark}
}

func (p *palette) preStyle() string {
	lbg := p.light.Get(chroma.Background)
	dbg := p.dark.Get(chroma.Background)

	var sb strings.Builder
	sb.WriteString("background-color:")
	sb.WriteString(lightDark(
		colour(lbg.Background, "#ffffff"),
		colour(dbg.Background, "#000000"),
	))
	sb.WriteString(";color:")
	sb.WriteString(lightDark(
		colour(lbg.Colour, "#000000"),
		colour(dbg.Colour, "#ffffff"),
	))
	return sb.String()
}

func (p *palette) token(tok chroma.Token) *html.Node {
	style := p.tokenStyle(tok.Type)
	if style == "" {
		return hast.Text(tok.Value)
	}
	return styledSpan(tok.Value, style)
}

// tokenStyle returns the inline style for a token type,
// or an empty string if it looks like the surrounding text.
func (p *palette) tokenStyle(tt chroma.TokenType) string {
	l := p.light.Get(tt)
	d := p.dark.Get(tt)
	lbg := p.light.Get(chroma.Background)
	dbg := p.dark.Get(chroma.Background)

	var decls []string
	if l.Colour != lbg.Colour || d.Colour != dbg.Colour {
		decls = append(decls, "color:"+lightDark(
			colour(l.Colour, "currentcolor"),
			colour(d.Colour, "currentcolor"),
		))
	}

	// Font styles are taken from the light theme.
	if l.Bold == chroma.Yes {
		decls = append(decls, "font-weight:bold")
	}
	if l.Italic == chroma.Yes {
		decls = append(decls, "font-style:italic")
	}
	if l.Underline == chroma.Yes {
		decls = append(decls, "text-decoration:underline")
	}
	return strings.Join(decls, ";")
}

func lightDark(light, dark string) string {
	if light == dark {
		return light
	}
	return "light-dark(" + light + "," + dark + ")"
}

func colour(c chroma.Colour, fallback string) string {
	if !c.IsSet() {
		return fallback
	}
	return c.String()
}
