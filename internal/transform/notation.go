package transform

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/hast"
)

// NotationName is the name of the [Notation] stage.
const NotationName = "line-notation"

// Kind is the kind of a line notation.
type Kind string

// Supported notation kinds.
const (
	KindAdd       Kind = "add"
	KindRemove    Kind = "remove"
	KindHighlight Kind = "highlight"
)

// Kinds lists all notation kinds.
var Kinds = []Kind{KindAdd, KindRemove, KindHighlight}

// ParseKind parses the name of a notation kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAdd, KindRemove, KindHighlight:
		return k, nil
	default:
		return "", errtrace.Errorf("unknown notation type %q: must be one of %q", s, Kinds)
	}
}

// IsDiff reports whether this kind marks a diff
// rather than a plain highlight.
func (k Kind) IsDiff() bool {
	return k == KindAdd || k == KindRemove
}

// DefaultClass is the class added to lines of this kind
// when none is configured.
func (k Kind) DefaultClass() string {
	switch k {
	case KindAdd:
		return "added"
	case KindRemove:
		return "removed"
	case KindHighlight:
		return "highlighted"
	default:
		return string(k)
	}
}

// String returns the name of the kind.
func (k Kind) String() string { return string(k) }

// Set parses a kind from a command line flag.
func (k *Kind) Set(s string) error {
	v, err := ParseKind(s)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*k = v
	return nil
}

// Get returns the kind.
func (k *Kind) Get() any { return *k }

// DefaultNotationStyle is the only notation style supported today.
const DefaultNotationStyle = "border"

// Notation marks lines of a block as added, removed, or highlighted.
//
// Lines are matched by their 1-based source index,
// not by the line number displayed to the reader.
// It must run after [Structure].
type Notation struct {
	// Kind of the notation.
	Kind Kind

	// Lines to mark.
	Lines LineSet

	// ClassName added to marked lines.
	// Defaults to [Kind.DefaultClass].
	ClassName string

	// BackgroundColor appended to the inline style of marked lines.
	// No color is added if this is empty.
	BackgroundColor string

	// Style of the notation.
	// Defaults to [DefaultNotationStyle].
	Style string
}

var _ Stage = (*Notation)(nil)

// Name returns [NotationName].
func (*Notation) Name() string { return NotationName }

// Transform marks the lines.
func (n *Notation) Transform(tree *hast.Tree) error {
	if !tree.HasApplied(StructureName) {
		return errtrace.Wrap(fmt.Errorf("%w: %v must run after %v",
			ErrStageOrder, NotationName, StructureName))
	}

	className := n.ClassName
	if className == "" {
		className = n.Kind.DefaultClass()
	}
	style := n.Style
	if style == "" {
		style = DefaultNotationStyle
	}

	var marked bool
	for _, line := range tree.Lines {
		if !n.Lines.Has(line.Index) {
			continue
		}
		marked = true

		hast.AddClass(line.Node, className)
		hast.Set(line.Node, "data-notation-style", style)
		if n.BackgroundColor != "" {
			hast.AppendStyle(line.Node, "background-color: "+n.BackgroundColor+";")
		}
	}

	if tree.Code != nil {
		if n.Kind.IsDiff() && marked {
			hast.AddClass(tree.Code, "has-diff")
		}
		hast.AddClass(tree.Code, "notation-"+style)
	}
	return nil
}
