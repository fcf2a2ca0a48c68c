package utils

import "strings"

// Ptr returns a pointer to a copy of v, for filling optional fields from
// literals.
func Ptr[T any](v T) *T {
	return &v
}

// OrZero reads an optional value.
func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// StringOrNil treats blank input as absent.
func StringOrNil(s string) *string {
	if s = strings.TrimSpace(s); s != "" {
		return &s
	}
	return nil
}
