package highlight

import (
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
)

// normalizeSource converts CRLF line endings to LF
// and drops a single trailing newline.
func normalizeSource(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.TrimSuffix(src, "\n")
}

// lexLines tokenizes src with the given lexer
// and splits the tokens into lines.
//
// src must already be normalized.
// The result always has one entry per line of src.
// Tokens spanning multiple lines are split at the newlines,
// and the newlines themselves are dropped.
func lexLines(l chroma.Lexer, src string) ([][]chroma.Token, error) {
	tokens, err := chroma.Tokenise(l, nil, src)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	want := strings.Count(src, "\n") + 1
	lines := make([][]chroma.Token, 1, want)
	for _, tok := range tokens {
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			last := len(lines) - 1
			lines[last] = append(lines[last], chroma.Token{Type: tok.Type, Value: part})
		}
	}

	// Lexers may add a trailing newline of their own.
	return fitLines(lines, want), nil
}

// plainLines splits src into lines of unstyled text.
func plainLines(src string) [][]chroma.Token {
	parts := strings.Split(src, "\n")
	lines := make([][]chroma.Token, len(parts))
	for i, p := range parts {
		if p != "" {
			lines[i] = []chroma.Token{{Type: chroma.Text, Value: p}}
		}
	}
	return lines
}

// fitLines pads or truncates lines to exactly n entries.
func fitLines(lines [][]chroma.Token, n int) [][]chroma.Token {
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, nil)
	}
	return lines
}
