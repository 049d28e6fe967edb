package services

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxContentLen     = 500
)

// checkText rejects blank values and values longer than max code points.
func checkText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	if n := utf8.RuneCountInString(value); n > max {
		return invalid("%s must be at most %d characters, got %d", field, max, n)
	}
	return nil
}
