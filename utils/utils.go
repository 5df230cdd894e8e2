// Package utils provides utility functions for the application.
package utils

// ToPtr returns a pointer to v. Handy for optional struct fields.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether an optional bool is set and true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
