package pipeline

import "regexp"

// emailRe matches an email-shaped token: local part, @, domain with at
// least one dot, a 2+ letter TLD, and an optional secondary TLD segment
// (e.g. .com.au).
var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:\.[a-zA-Z]{2,})?`)

// ExtractEmail returns the first email-shaped token in the page text, in
// document order. First occurrence keeps the selection deterministic when
// a page lists several addresses. No match is a valid outcome, not an
// error.
func ExtractEmail(text string) (string, bool) {
	m := emailRe.FindString(text)
	return m, m != ""
}
