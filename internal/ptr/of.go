// Package ptr helps with optional values held as pointers,
// such as option fields that distinguish "unset" from the zero value.
package ptr

// Of returns a pointer to a value of the given type.
// This is a convenience function to turn literals into pointers.
func Of[T any](v T) *T {
	return &v
}

// Or returns the value p points to,
// or fallback if p is nil.
func Or[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// First returns the first non-nil pointer,
// or nil if all of them are nil.
func First[T any](ps ...*T) *T {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}
