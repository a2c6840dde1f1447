// Package normalize holds the capability-agnostic validation and
// key-normalization helpers shared by the provider adapters and the
// field merger.
package normalize

import (
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	linkedinRe = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/(in|company)/[A-Za-z0-9\-_%]+/?$`)
	domainRe   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9](\.[a-zA-Z0-9][a-zA-Z0-9-]*)+$`)
	// Go's regexp (RE2) has no backreferences, so `^(\d)\1+$` is spelled out
	// per digit; the matched language is identical.
	repeatedRe = regexp.MustCompile(`^(?:0{2,}|1{2,}|2{2,}|3{2,}|4{2,}|5{2,}|6{2,}|7{2,}|8{2,}|9{2,})$`)
)

// Email lowercases and trims an email address for use as a dedup key.
func Email(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Phone reduces a phone number to its digits for use as a dedup key.
// Returns "" when no digits remain.
func Phone(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold case-folds a string for case-insensitive dedup keys (skills,
// school names, people names).
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Domain strips scheme, www prefix, path, and case from a domain or URL.
func Domain(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// ValidEmail reports whether addr parses as an RFC 5322 address.
func ValidEmail(addr string) bool {
	if addr == "" {
		return false
	}
	_, err := mail.ParseAddress(addr)
	return err == nil
}

// ValidDomain reports whether s looks like a bare DNS domain.
func ValidDomain(s string) bool {
	return domainRe.MatchString(s)
}

// ValidLinkedInURL reports whether s is a LinkedIn profile or company URL.
func ValidLinkedInURL(s string) bool {
	return linkedinRe.MatchString(s)
}

// CPF returns the digits of a Brazilian CPF, or "" if the input does not
// contain exactly 11 digits or is a repeated-digit placeholder.
func CPF(s string) string {
	d := Phone(s)
	if len(d) != 11 || repeatedRe.MatchString(d) {
		return ""
	}
	return d
}

// CNPJ returns the digits of a Brazilian CNPJ, or "" if the input does
// not contain exactly 14 digits or is a repeated-digit placeholder.
func CNPJ(s string) string {
	d := Phone(s)
	if len(d) != 14 || repeatedRe.MatchString(d) {
		return ""
	}
	return d
}
