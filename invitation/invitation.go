// Package invitation generates and checks club invitation codes.
package invitation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Alphabet leaves out 0, 1, O and I
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// SuffixLength is the number of random characters after the prefix
const SuffixLength = 5

// MaxAttempts bounds the search for an unused code
const MaxAttempts = 10

var codePattern = regexp.MustCompile(`^[A-Z0-9]+-[` + Alphabet + `]{5}$`)

// Generate returns PREFIX-XXXXX with the suffix drawn from Alphabet
func Generate(prefix string) (string, error) {
	b := make([]byte, SuffixLength)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random suffix: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return strings.ToUpper(prefix) + "-" + string(b), nil
}

// Normalize trims and uppercases a code typed by a user
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the generated shape
func Valid(code string) bool {
	return codePattern.MatchString(code)
}
