package langs

import (
	"bytes"
	"errors"
	"testing"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	custom := Custom("mylang", lexers.Fallback)
	customAgain := Custom("mylang", lexers.Fallback)

	tests := []struct {
		desc      string
		give      []Spec
		want      []string
		wantDiags []string // inputs
	}{
		{
			desc: "aliases deduplicated",
			give: []Spec{Lang("ts"), Lang("lua"), Lang("ts")},
			want: []string{"typescript", "lua"},
		},
		{
			desc: "alias and id",
			give: []Spec{Lang("typescript"), Lang("ts"), Lang("js"), Lang("javascript")},
			want: []string{"typescript", "javascript"},
		},
		{
			desc: "special languages kept",
			give: []Spec{Lang("text"), Lang("ansi"), Lang("lua")},
			want: []string{"text", "ansi", "lua"},
		},
		{
			desc:      "unsupported dropped",
			give:      []Spec{Lang("cobol"), Lang("lua"), Lang("cobol")},
			want:      []string{"lua"},
			wantDiags: []string{"cobol"},
		},
		{
			desc: "custom registrations",
			give: []Spec{custom, Lang("lua"), customAgain},
			want: []string{"mylang", "lua"},
		},
		{
			desc: "custom not alias resolved",
			give: []Spec{Custom("ts", lexers.Fallback), Lang("ts")},
			want: []string{"ts", "typescript"},
		},
		{desc: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, diags := Normalize(cat, tt.give)
			assert.Equal(t, tt.want, nilIfEmpty(IDs(got)))

			var gotDiags []string
			for _, d := range diags {
				gotDiags = append(gotDiags, d.Input)
				assert.Contains(t, d.Message, "not supported")
			}
			assert.Equal(t, tt.wantDiags, gotDiags)
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestLogDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	LogDiagnostics(log.New(&buf), []Diagnostic{
		{Input: "cobol", Canonical: "cobol", Message: "nope"},
	})
	assert.Contains(t, buf.String(), "unsupported language dropped")
	assert.Contains(t, buf.String(), "cobol")
}

func TestCatalog_ResolveRequest(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	var custom chroma.Lexer = lexers.Fallback
	registrations := []Spec{Custom("mylang", custom), Lang("lua")}

	tests := []struct {
		desc        string
		give        string
		wantID      string
		wantSpecial bool
		wantCustom  bool
		wantErr     bool
	}{
		{desc: "alias", give: "ts", wantID: "typescript"},
		{desc: "canonical", give: "lua", wantID: "lua"},
		{desc: "special", give: "text", wantID: "text", wantSpecial: true},
		{desc: "special uppercase", give: "ANSI", wantID: "ansi", wantSpecial: true},
		{desc: "custom", give: "mylang", wantID: "mylang", wantCustom: true},
		{desc: "unsupported", give: "cobol", wantErr: true},
		{desc: "blank", give: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, err := cat.ResolveRequest(tt.give, registrations)
			if tt.wantErr {
				var unsupported *UnsupportedLanguageError
				require.True(t, errors.As(err, &unsupported), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID())
			assert.Equal(t, tt.wantSpecial, got.Special)
			assert.Equal(t, tt.wantCustom, got.Spec.IsCustom())
		})
	}
}

func TestUnsupportedLanguageError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `unsupported language "cobol"`,
		(&UnsupportedLanguageError{Language: "cobol", Canonical: "cobol"}).Error())
	assert.Equal(t, `unsupported language "cob" (canonical: "cobol")`,
		(&UnsupportedLanguageError{Language: "cob", Canonical: "cobol"}).Error())
}
