// Package transform rewrites tokenized code blocks into their final shape.
//
// Rewrites are [Stage]s run in order by a [Pipeline].
// The built-in stages are [Structure], which wraps the block
// in its caption, gutter, and line structure,
// and [Notation], which marks added, removed, or highlighted lines.
// Structure must run before Notation.
//
// Each stage may run at most once on a given tree.
package transform

import (
	"errors"
	"fmt"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/hast"
)

// ErrStageReapplied is returned when a stage runs on a tree
// it has already transformed.
var ErrStageReapplied = errors.New("stage already applied")

// ErrStageOrder is returned when a stage runs
// before the stages it depends on.
var ErrStageOrder = errors.New("stage out of order")

// Stage is a single in-place rewrite of a tokenized block.
type Stage interface {
	// Name identifies the stage.
	// Stages with the same name are the same stage.
	Name() string

	// Transform rewrites the tree in place.
	Transform(*hast.Tree) error
}

// StageFunc builds a Stage from a function.
func StageFunc(name string, fn func(*hast.Tree) error) Stage {
	return &funcStage{name: name, fn: fn}
}

type funcStage struct {
	name string
	fn   func(*hast.Tree) error
}

func (s *funcStage) Name() string { return s.name }

func (s *funcStage) Transform(t *hast.Tree) error {
	return errtrace.Wrap(s.fn(t))
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// Run applies each stage to the tree in order.
// It stops at the first failure.
func (p Pipeline) Run(tree *hast.Tree) error {
	for _, s := range p {
		if err := Apply(tree, s); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// Apply runs a single stage on the tree
// and records it in tree.Applied.
func Apply(tree *hast.Tree, s Stage) error {
	name := s.Name()
	if tree.HasApplied(name) {
		return errtrace.Wrap(fmt.Errorf("%w: %q", ErrStageReapplied, name))
	}
	if err := s.Transform(tree); err != nil {
		return errtrace.Wrap(fmt.Errorf("%v: %w", name, err))
	}
	tree.Applied = append(tree.Applied, name)
	return nil
}
