package registry

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/qualify-cli/internal/model"
)

// NormalizeCNPJ strips formatting punctuation and validates the national
// company identifier: 14 digits with valid check digits. Rejection happens
// before any network call.
func NormalizeCNPJ(input string) (string, error) {
	digits := stripCNPJ(input)
	if len(digits) != 14 {
		return "", eris.Wrap(model.ErrInvalidIdentifier, "tax id must have 14 digits")
	}
	if allSameDigit(digits) {
		return "", eris.Wrap(model.ErrInvalidIdentifier, "tax id digits are all equal")
	}
	if !validCheckDigits(digits) {
		return "", eris.Wrap(model.ErrInvalidIdentifier, "tax id check digits do not match")
	}
	return digits, nil
}

func stripCNPJ(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '/', '-', ' ':
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	for _, r := range out {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return out
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// validCheckDigits verifies the two CNPJ verification digits using the
// official modulo-11 weighting.
func validCheckDigits(digits string) bool {
	return checkDigit(digits, 12) == int(digits[12]-'0') &&
		checkDigit(digits, 13) == int(digits[13]-'0')
}

func checkDigit(digits string, pos int) int {
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	offset := len(weights) - pos
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * weights[offset+i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
