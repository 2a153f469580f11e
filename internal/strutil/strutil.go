// Package strutil holds small text helpers shared by the matching code.
// Brazilian labels arrive with inconsistent casing and accents, so every
// set-membership check in the pipeline compares folded forms.
package strutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics so pt-BR labels compare the way
// humans read them ("Serviços" == "servicos").
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// ContainsFolded reports whether needle is in haystack under fold-compare.
// An empty needle never matches.
func ContainsFolded(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	folded := Fold(needle)
	for _, h := range haystack {
		if Fold(h) == folded {
			return true
		}
	}
	return false
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchActivityCode compares digits-only CNAE codes. A target matches when
// it equals the code or is a prefix of it, so a whole division ("62") or a
// single subclass ("6201501") can be targeted.
func MatchActivityCode(code string, targets []string) bool {
	digits := DigitsOnly(code)
	if digits == "" {
		return false
	}
	for _, t := range targets {
		td := DigitsOnly(t)
		if td == "" {
			continue
		}
		if strings.HasPrefix(digits, td) {
			return true
		}
	}
	return false
}
