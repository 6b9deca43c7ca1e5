// Package validate checks code block input before it reaches the renderer,
// and normalizes fields the way an editor would on save.
//
// The renderer itself tolerates bad input where it can;
// these checks exist so that callers can reject it early
// with a useful message.
package validate

import (
	"path"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/codefig/internal/langs"
)

// MaxFileNameLength is the longest file name accepted by [FileName].
const MaxFileNameLength = 100

// FileName checks the file name of a code block.
//
// An empty name is valid.
// Otherwise the name must fit in [MaxFileNameLength],
// must have an extension,
// and if language is set, the extension must be
// the language's label as reported by the catalog.
// Special languages accept any extension.
func FileName(name, language string, cat *langs.Catalog) error {
	if name == "" {
		return nil
	}

	if len(name) > MaxFileNameLength {
		return errtrace.Errorf("file name must be less than %d characters", MaxFileNameLength)
	}

	ext := path.Ext(name)
	if ext == "" || ext == "." {
		return errtrace.New("file name must have an extension")
	}

	language = strings.TrimSpace(language)
	if language == "" || langs.IsSpecial(language) || cat == nil {
		return nil
	}

	label := cat.Label(cat.Resolve(language))
	if ext != "."+label {
		return errtrace.Errorf("invalid extension: %v (expected %v)", ext, label)
	}
	return nil
}

// NotationRange checks a list of line ranges.
//
// Each entry must be a positive line number "N"
// or an inclusive range "A-B" with A <= B.
// Blank entries are ignored.
func NotationRange(ranges []string) error {
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}

		if startStr, endStr, ok := strings.Cut(r, "-"); ok {
			start, okStart := parseLine(startStr)
			end, okEnd := parseLine(endStr)
			if okStart && okEnd {
				if start > end {
					return errtrace.Errorf("invalid range: %v (start must be less than or equal to end)", r)
				}
				continue
			}
		} else if _, ok := parseLine(r); ok {
			continue
		}

		return errtrace.Errorf("invalid format: %q. "+
			"Only numbers (e.g., 1, 5, 10) or ranges (e.g., 2-5) are allowed", r)
	}
	return nil
}

// parseLine parses a positive decimal line number.
func parseLine(s string) (int, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil && n >= 1
}

// TrimCode removes leading and trailing blank lines from code.
// Whitespace inside the remaining lines is kept.
// Code that is entirely blank is returned unchanged.
func TrimCode(code string) string {
	lines := strings.Split(code, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= 0 && strings.TrimSpace(lines[end]) == "" {
		end--
	}

	if start > end {
		return code
	}
	return strings.Join(lines[start:end+1], "\n")
}

// BlockName derives the display name of a block from its file name.
// It reports false if the file name is blank.
func BlockName(fileName string) (string, bool) {
	name := strings.TrimSpace(fileName)
	return name, name != ""
}
