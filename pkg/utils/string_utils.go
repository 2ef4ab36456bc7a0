package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the trimmed string is empty.
// Optional columns such as users.mobile_phone are stored as NULL instead of "" so that
// their unique constraint does not fire on blank values.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeOptional trims an optional string and collapses blanks to nil.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return NewNullString(*s)
}
