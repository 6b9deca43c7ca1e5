// Package errdefer runs deferred cleanup that can fail,
// joining the failure into the function's named error return.
package errdefer

import (
	"errors"
	"io"
)

// Close closes closer and joins its error into *err.
//
// Use it inside a defer statement with a named return.
func Close(err *error, closer io.Closer) {
	Run(err, closer.Close)
}

// Run calls fn and joins its error into *err.
// Use it for cleanup such as flushing a buffered writer.
func Run(err *error, fn func() error) {
	*err = errors.Join(*err, fn())
}
