// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls so that every boundary agrees on the canonical form.
package normalize

import "strings"

// Slug normalizes a document slug by trimming whitespace and converting to lowercase.
// Every store boundary (fetch, save, exists) goes through this, so "Foo-Bar" and
// "foo-bar" address the same document.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Backend normalizes a configured backend name ("Mongo", " redis ") for comparison.
func Backend(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
