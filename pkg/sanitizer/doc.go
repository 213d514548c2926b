// Package sanitizer provides input normalization for reservation data.
//
// All functions are idempotent - applying them twice produces the same
// result. Invalid input degrades to empty strings or empty slices
// rather than errors.
//
// Normalization includes:
//   - Free-text strings (names, titles, notes): collapse internal
//     whitespace, trim leading/trailing spaces
//   - Amenities: lowercase, strip punctuation - "Whiteboard " and
//     "whiteboard" normalize to the same value
//   - Slices: drop duplicates and empty values after normalization
package sanitizer
