// Package coerce turns the plain-text values the XML format stores
// everything as into typed Go values, trying each candidate type in a
// fixed precedence and falling back to the original string untouched.
package coerce

import "strconv"

// Coerce converts text to the most specific type it can represent: an
// empty string becomes nil, then int64, then float64, then bool, then a
// structured literal (list/map/tuple), in that order. Any step that fails
// to parse falls through to the next; if every step fails the original
// string is returned unchanged.
func Coerce(text string) any {
	if text == "" {
		return nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	if b, ok := parseBool(text); ok {
		return b
	}
	if v, ok := parseLiteral(text); ok {
		return v
	}
	return text
}

// parseBool accepts only the literal spellings the original format uses:
// "true", "TRUE", "false", "FALSE". strconv.ParseBool is deliberately not
// used here — it also accepts "1", "0", "t", "f", which would shadow the
// int-precedence step above and accept values this format never writes.
func parseBool(text string) (bool, bool) {
	switch text {
	case "true", "TRUE":
		return true, true
	case "false", "FALSE":
		return false, true
	default:
		return false, false
	}
}
