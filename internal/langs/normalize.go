package langs

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Diagnostic is a non-fatal problem found while normalizing
// a configured language list.
type Diagnostic struct {
	// Input is the language as it was configured.
	Input string

	// Canonical is what Input resolved to.
	Canonical string

	// Message describes the problem.
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

// Normalize deduplicates and validates a configured language list.
//
// Names are resolved to canonical ids and kept in first-seen order.
// Names that resolve to neither a catalog language nor a special language
// are dropped with a diagnostic.
// Custom registrations are keyed by their id and never alias-resolved.
func Normalize(cat *Catalog, inputs []Spec) ([]Spec, []Diagnostic) {
	seen := make(map[string]struct{}, len(inputs))
	var (
		out   []Spec
		diags []Diagnostic
	)
	for _, in := range inputs {
		if in.IsCustom() {
			if _, ok := seen[in.ID]; ok {
				continue
			}
			seen[in.ID] = struct{}{}
			out = append(out, in)
			continue
		}

		canonical := cat.Resolve(in.ID)
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}

		if !IsSpecial(canonical) && !cat.Has(canonical) {
			diags = append(diags, Diagnostic{
				Input:     in.ID,
				Canonical: canonical,
				Message: fmt.Sprintf("language %q (canonical: %q) is not supported",
					in.ID, canonical),
			})
			continue
		}

		out = append(out, Lang(canonical))
	}
	return out, diags
}

// LogDiagnostics reports diagnostics to the given logger as warnings.
func LogDiagnostics(logger *log.Logger, diags []Diagnostic) {
	for _, d := range diags {
		logger.Warn("unsupported language dropped",
			"input", d.Input, "canonical", d.Canonical)
	}
}
