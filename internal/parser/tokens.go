package parser

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	// NoteIDClass is the character class of note identifiers.
	NoteIDClass = `[A-Za-z0-9\-_+. ]`
	// CitationKeyClass is the character class of citation keys.
	CitationKeyClass = `[A-Za-z0-9\-_+.]`

	timestampLen = 14
)

var (
	// NoteLinkRe matches a well-formed [[identifier]] token.
	NoteLinkRe = regexp.MustCompile(`\[\[(` + NoteIDClass + `+)\]\]`)
	citationRe = regexp.MustCompile(`@(` + CitationKeyClass + `+)`)
)

// NoteLinks returns the identifiers of all [[...]] tokens in body, in order
// of appearance. Repeated tokens are repeated.
func NoteLinks(body string) []string {
	matches := NoteLinkRe.FindAllStringSubmatch(body, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Citations returns the keys of all @key tokens whose @ is not preceded by a
// letter or digit, so e-mail addresses are not mistaken for citations.
func Citations(body string) []string {
	var out []string
	for _, loc := range citationRe.FindAllStringSubmatchIndex(body, -1) {
		if precededByAlnum(body, loc[0]) {
			continue
		}
		out = append(out, body[loc[2]:loc[3]])
	}
	return out
}

// TimestampIDs returns every run of exactly 14 ASCII digits taken left to
// right that is not immediately preceded by "[[". A longer digit run yields
// its first 14-digit window that is not preceded by "[[".
func TimestampIDs(body string) []string {
	var out []string
	for i := 0; i+timestampLen <= len(body); {
		if !allDigits(body[i:i+timestampLen]) || (i >= 2 && body[i-2:i] == "[[") {
			i++
			continue
		}
		out = append(out, body[i:i+timestampLen])
		i += timestampLen
	}
	return out
}

func precededByAlnum(s string, at int) bool {
	if at == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:at])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
