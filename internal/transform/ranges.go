package transform

import (
	"slices"
	"strconv"
	"strings"
)

// LineSpan is an inclusive range of 1-based line numbers.
type LineSpan struct {
	Start, End int
}

// LineSet is a set of 1-based line numbers,
// held as the ranges that make it up.
// Ranges may overlap.
type LineSet []LineSpan

// Has reports whether n is in the set.
func (s LineSet) Has(n int) bool {
	for _, span := range s {
		if span.Start <= n && n <= span.End {
			return true
		}
	}
	return false
}

// Sorted returns the line numbers in ascending order,
// without duplicates.
// It expands every range, so use it only on small sets.
func (s LineSet) Sorted() []int {
	seen := make(map[int]struct{})
	out := make([]int, 0, len(s))
	for _, span := range s {
		for n := span.Start; n <= span.End; n++ {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

// ParseRanges expands range specifications into a set of line numbers.
//
// Each range is either "N" or "A-B", inclusive on both ends.
// Entries that don't parse, or that name no positive line, are skipped.
// Input is expected to be validated before it gets here.
func ParseRanges(ranges []string) LineSet {
	var lines LineSet
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}

		startStr, endStr, isRange := strings.Cut(r, "-")
		if !isRange {
			n, err := strconv.Atoi(r)
			if err == nil && n >= 1 {
				lines = append(lines, LineSpan{Start: n, End: n})
			}
			continue
		}

		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			continue
		}

		start = max(start, 1)
		if start <= end {
			lines = append(lines, LineSpan{Start: start, End: end})
		}
	}
	return lines
}
