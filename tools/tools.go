//go:build tools

// Package tools pins the linters run over codefig in CI.
// It lives in its own module to keep them out of codefig's dependencies.
package tools

import (
	_ "github.com/mgechev/revive"
	_ "honnef.co/go/tools/cmd/staticcheck"
)
