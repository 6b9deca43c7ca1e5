package render

import (
	"bytes"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/hast"
	"go.abhg.dev/codefig/internal/style"
	"golang.org/x/net/html"
)

// Document renders the block inside its container:
//
//	div.codefig-container[style=<variables>]
//	  button.codefig-copy-button (if enabled)
//	  div.codefig-content
//	    <HTML>
//
// classes are added to the container
// after the configured container classes.
func (r *Result) Document(classes ...string) (string, error) {
	container := hast.Element("div",
		hast.Attr("class", "codefig-container"),
	)
	hast.AddClass(container, r.ContainerClasses...)
	hast.AddClass(container, classes...)
	if decls := style.Declarations(r.Variables); decls != "" {
		hast.Set(container, "style", decls)
	}

	if r.CopyButton {
		button := hast.Element("button",
			hast.Attr("type", "button"),
			hast.Attr("class", "codefig-copy-button"),
			hast.Attr("aria-label", "Copy code"),
			hast.Attr("data-code", r.Code),
		)
		button.AppendChild(hast.Text("Copy"))
		container.AppendChild(button)
	}

	content := hast.Element("div", hast.Attr("class", "codefig-content"))
	content.AppendChild(&html.Node{Type: html.RawNode, Data: r.HTML})
	container.AppendChild(content)

	var buf bytes.Buffer
	if err := html.Render(&buf, container); err != nil {
		return "", errtrace.Wrap(err)
	}
	return buf.String(), nil
}
