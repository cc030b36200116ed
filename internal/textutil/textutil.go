// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the text normalization shared by query
// planning, candidate extraction, scoring, and guarding. All functions are
// pure so the stages built on them stay deterministic.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// mixWords are the tokens that mark a parenthetical qualifier as a
// remix/mix designation rather than ordinary title decoration.
var mixWords = map[string]bool{
	"remix":   true,
	"mix":     true,
	"edit":    true,
	"dub":     true,
	"rework":  true,
	"version": true,
	"bootleg": true,
	"vip":     true,
	"remaster": true,
}

// stopTokens are title tokens carrying no matching signal.
var stopTokens = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true,
	"feat": true, "featuring": true, "ft": true, "with": true,
}

var (
	parenthetical = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	featSuffix    = regexp.MustCompile(`(?i)\s+(?:feat\.?|featuring|ft\.?)\s+.*$`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Normalize case-folds s and collapses runs of whitespace.
func Normalize(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// StripPunct removes everything but letters, digits, and spaces, then
// collapses whitespace.
func StripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CleanTitle strips featuring-artist suffixes and bracketed qualifiers,
// the form both sides of a comparison are reduced to before scoring.
func CleanTitle(title string) string {
	t := featSuffix.ReplaceAllString(title, "")
	t = parenthetical.ReplaceAllString(t, "")
	return Normalize(t)
}

// SplitRemix isolates a trailing remix/mix qualifier from a raw title.
// "Never Sleep Again (Keinemusik Remix)" yields ("Never Sleep Again",
// "Keinemusik Remix"). Parentheticals that do not look like a mix
// designation are left on the title.
func SplitRemix(title string) (clean, remix string) {
	clean = strings.TrimSpace(title)
	locs := parenthetical.FindAllStringIndex(clean, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		inner := strings.Trim(clean[locs[i][0]:locs[i][1]], " ([])")
		if !IsMixLabel(inner) {
			continue
		}
		clean = strings.TrimSpace(clean[:locs[i][0]] + clean[locs[i][1]:])
		remix = strings.TrimSpace(inner)
		return clean, remix
	}
	return clean, ""
}

// IsMixLabel reports whether s reads like a remix/mix designation.
func IsMixLabel(s string) bool {
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if mixWords[tok] {
			return true
		}
	}
	return false
}

// SignificantTokens returns the normalized, punctuation-stripped tokens of
// a title that carry matching signal: stop words and single characters are
// dropped.
func SignificantTokens(title string) []string {
	var tokens []string
	for _, tok := range strings.Fields(StripPunct(Normalize(title))) {
		if len(tok) < 2 || stopTokens[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Surname returns the last space-separated field of an artist name, the
// minimal form the most permissive query rank falls back to.
func Surname(artist string) string {
	fields := strings.Fields(artist)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
