package util

import (
	"regexp"
	"strings"
)

var (
	// multiSpacePattern matches multiple consecutive whitespace characters
	multiSpacePattern = regexp.MustCompile(`\s+`)
	byteOrderMark     = "\ufeff"
	nonBreakingSpace  = "\u00a0"
)

// CleanCell normalizes a single CSV value: strips a byte-order mark,
// turns non-breaking spaces into spaces and trims the result.
func CleanCell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, byteOrderMark)
	s = strings.ReplaceAll(s, nonBreakingSpace, " ")
	return strings.TrimSpace(s)
}

// CleanHeader normalizes a header field name. Internal whitespace runs are
// collapsed so "Model  Year" and "Model Year" name the same column.
func CleanHeader(s string) string {
	s = CleanCell(s)
	return multiSpacePattern.ReplaceAllString(s, " ")
}
