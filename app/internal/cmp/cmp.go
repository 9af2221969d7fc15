// Package cmp provides the standard library's cmp.Or for toolchains
// older than Go 1.22, where the function does not exist yet. The
// implementation is copied verbatim from the Go standard library.
package cmp

// Or returns the first of its arguments that is not equal to the zero value.
// If no argument is non-zero, it returns the zero value.
func Or[T comparable](vals ...T) T {
	var zero T
	for _, val := range vals {
		if val != zero {
			return val
		}
	}
	return zero
}
