// Package hast holds the HTML syntax tree produced by the tokenizer
// and rewritten in place by the transform stages.
//
// Nodes are plain [html.Node] values from golang.org/x/net/html.
// A [Tree] keeps direct handles to the nodes the stages care about
// so that they don't have to search for them by tag name.
package hast

import (
	"bytes"
	"io"
	"slices"

	"braces.dev/errtrace"
	"golang.org/x/net/html"
)

// Tree is a tokenized code block.
//
// A Tree is owned by a single render call.
// It must not be shared between requests.
type Tree struct {
	// Root is the document node holding the block.
	Root *html.Node

	// Pre is the pre element of the block.
	// The tokenizer makes it the outermost element;
	// structural stages may wrap it and update this field.
	Pre *html.Node

	// Code is the element holding the lines.
	Code *html.Node

	// Lines in source order.
	Lines []*Line

	// Applied lists the names of the stages that have run on this tree,
	// in the order they ran.
	Applied []string
}

// Line is a single source line of a tokenized block.
type Line struct {
	// Node is the element wrapping the tokens of this line.
	Node *html.Node

	// Index is the 1-based line number in the source.
	// Stages must not change it.
	Index int
}

// New builds a tree around the given pre and code elements.
// code must already be a descendant of pre.
func New(pre, code *html.Node) *Tree {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(pre)
	return &Tree{
		Root: root,
		Pre:  pre,
		Code: code,
	}
}

// AddLine appends a line element to the code element
// and records it as the next source line.
// Lines after the first are separated by a newline.
func (t *Tree) AddLine(n *html.Node) *Line {
	if len(t.Lines) > 0 {
		t.Code.AppendChild(Text("\n"))
	}
	t.Code.AppendChild(n)
	line := &Line{Node: n, Index: len(t.Lines) + 1}
	t.Lines = append(t.Lines, line)
	return line
}

// HasApplied reports whether a stage with the given name
// has already run on this tree.
func (t *Tree) HasApplied(name string) bool {
	return slices.Contains(t.Applied, name)
}

// Render writes the tree as an HTML fragment.
func (t *Tree) Render(w io.Writer) error {
	for n := t.Root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(w, n); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// HTML renders the tree into a string.
func (t *Tree) HTML() (string, error) {
	var buf bytes.Buffer
	if err := t.Render(&buf); err != nil {
		return "", errtrace.Wrap(err)
	}
	return buf.String(), nil
}
