package transform

import (
	"strconv"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/hast"
	"go.abhg.dev/codefig/internal/langs"
	"golang.org/x/net/html"
)

// StructureName is the name of the [Structure] stage.
const StructureName = "core-structure"

// _zeroWidthSpace keeps an empty caption from collapsing.
const _zeroWidthSpace = "\u200b"

// _lineNumberStyle is the inline style of line number gutters.
const _lineNumberStyle = "color: light-dark(rgba(0, 0, 0, 0.4), rgba(255, 255, 255, 0.4)); " +
	"border-right: 1px solid light-dark(rgba(0, 0, 0, 0.1), rgba(255, 255, 255, 0.1))"

// Structure wraps a tokenized block into its final document structure:
//
//	figure.codefig-figure
//	  figcaption.codefig-caption
//	    span.filename           (or a placeholder span)
//	    span.language-label     (optional)
//	  div.codefig-pre-wrapper
//	    pre.codefig-pre
//	      code
//	        div.line[data-line] (one per source line)
//
// Line numbers shown to the reader start at StartLineNumber.
// This is cosmetic: [hast.Line.Index] is left untouched
// for the stages that run after this one.
type Structure struct {
	// FileName shown in the caption, if any.
	FileName string

	// Language of the block.
	Language langs.Resolved

	// Labels looks up the caption label for Language.
	// If nil, the language id is used.
	Labels *langs.Catalog

	// ShowLanguageLabel adds the language label to the caption.
	// Special languages are never labeled.
	ShowLanguageLabel bool

	// ShowLineNumbers adds a line number gutter to each line.
	ShowLineNumbers bool

	// StartLineNumber is the number displayed for the first line.
	StartLineNumber int

	// Wrap marks the block for line wrapping.
	Wrap bool

	// Extra classes for the pre and code elements.
	PreClasses  []string
	CodeClasses []string
}

var _ Stage = (*Structure)(nil)

// Name returns [StructureName].
func (*Structure) Name() string { return StructureName }

// Transform rewrites the tree.
// tree.Pre is replaced with the new inner pre element.
func (s *Structure) Transform(tree *hast.Tree) error {
	if tree.Pre == nil || tree.Code == nil {
		return errtrace.New("tree has no pre or code element")
	}

	s.lines(tree)
	s.code(tree.Code)
	tree.Pre = s.pre(tree.Pre)
	return nil
}

func (s *Structure) lines(tree *hast.Tree) {
	// Lines become block elements,
	// so the newlines between them would only add blank space.
	for c := tree.Code.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && c.Data == "\n" {
			tree.Code.RemoveChild(c)
		}
		c = next
	}

	for _, line := range tree.Lines {
		n := line.Node
		display := strconv.Itoa(s.StartLineNumber + line.Index - 1)

		hast.Retag(n, "div")
		hast.Set(n, "data-line", display)
		hast.AddClass(n, "line")
		if !s.ShowLineNumbers {
			continue
		}

		hast.AddClass(n, "line-numbers")
		gutter := hast.Element("span",
			hast.Attr("class", "line-number"),
			hast.Attr("aria-hidden", "true"),
			hast.Attr("style", _lineNumberStyle),
		)
		gutter.AppendChild(hast.Text(display))
		hast.Prepend(n, gutter)
	}
}

func (s *Structure) code(code *html.Node) {
	if s.ShowLineNumbers {
		hast.AddClass(code, "has-line-numbers")
	}
	hast.AddClass(code, s.CodeClasses...)
}

func (s *Structure) pre(outer *html.Node) (inner *html.Node) {
	style, hasStyle := hast.Get(outer, "style")

	// The inner pre keeps everything the tokenizer put on the block
	// except its classes.
	inner = hast.Element("pre")
	for _, a := range outer.Attr {
		if a.Key != "class" {
			inner.Attr = append(inner.Attr, a)
		}
	}
	hast.AddClass(inner, "codefig-pre")
	if s.ShowLineNumbers {
		hast.AddClass(inner, "has-line-numbers")
	}
	if s.Wrap {
		hast.AddClass(inner, "wrap")
	}
	hast.AddClass(inner, s.PreClasses...)
	for _, c := range hast.Children(outer) {
		inner.AppendChild(c)
	}

	hast.Retag(outer, "figure")
	outer.Attr = nil
	hast.AddClass(outer, "codefig-figure")
	if s.FileName != "" {
		hast.AddClass(outer, "has-filename")
	}
	if hasStyle {
		hast.Set(outer, "style", style)
	}

	caption := hast.Element("figcaption", hast.Attr("class", "codefig-caption"))
	if hasStyle {
		// The caption sits outside the pre,
		// so it needs the theme colors of its own.
		hast.Set(caption, "style", style)
	}
	outer.AppendChild(caption)

	name := hast.Element("span")
	if s.FileName != "" {
		hast.Set(name, "class", "filename")
		name.AppendChild(hast.Text(s.FileName))
	} else {
		name.AppendChild(hast.Text(_zeroWidthSpace))
	}
	caption.AppendChild(name)

	if label := s.label(); label != "" {
		span := hast.Element("span", hast.Attr("class", "language-label"))
		span.AppendChild(hast.Text(label))
		caption.AppendChild(span)
	}

	wrapper := hast.Element("div", hast.Attr("class", "codefig-pre-wrapper"))
	wrapper.AppendChild(inner)
	outer.AppendChild(wrapper)
	return inner
}

func (s *Structure) label() string {
	if !s.ShowLanguageLabel || s.Language.Special {
		return ""
	}
	id := s.Language.ID()
	if id == "" {
		return ""
	}
	if s.Labels == nil || s.Language.Spec.IsCustom() {
		return id
	}
	return s.Labels.Label(id)
}
