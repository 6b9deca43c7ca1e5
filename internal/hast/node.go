package hast

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element builds a new element node with the given attributes.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Text builds a new text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attr builds an attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Retag changes the tag name of an element in place.
func Retag(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Get returns the value of an attribute.
func Get(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Set sets the value of an attribute,
// replacing the existing value if any.
func Set(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, Attr(key, val))
}

// Delete removes an attribute.
func Delete(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Classes returns the class list of an element.
func Classes(n *html.Node) []string {
	v, _ := Get(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether the element has the given class.
func HasClass(n *html.Node, class string) bool {
	return slices.Contains(Classes(n), class)
}

// AddClass adds classes to an element.
// Classes that are already present or empty are ignored.
func AddClass(n *html.Node, classes ...string) {
	have := Classes(n)
	changed := false
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(have, c) {
			continue
		}
		have = append(have, c)
		changed = true
	}
	if changed {
		Set(n, "class", strings.Join(have, " "))
	}
}

// AppendStyle appends a CSS declaration to the element's inline style,
// keeping whatever was already there.
func AppendStyle(n *html.Node, decl string) {
	cur, _ := Get(n, "style")
	Set(n, "style", strings.TrimSpace(cur+" "+decl))
}

// Children detaches and returns all children of n.
func Children(n *html.Node) []*html.Node {
	var kids []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		kids = append(kids, c)
		c = next
	}
	return kids
}

// Prepend inserts child as the first child of n.
func Prepend(n, child *html.Node) {
	if n.FirstChild == nil {
		n.AppendChild(child)
		return
	}
	n.InsertBefore(child, n.FirstChild)
}

// TextContent returns the concatenated text of n and its descendants.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
