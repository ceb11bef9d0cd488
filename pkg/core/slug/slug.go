// Package slug derives URL identifiers for job postings.
package slug

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	suffixLength = 4
	maxBaseLen   = 80
	alphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	fallbackBase = "job"
)

// replacements covers letters NFD cannot decompose and a few symbols worth
// keeping as words.
var replacements = strings.NewReplacer(
	"&", " and ",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"œ", "oe", "Œ", "OE",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"€", " euro ",
	"£", " pound ",
	"$", " dollar ",
	"%", " percent ",
)

// Generate returns slugify(companyName + " " + title) followed by a hyphen
// and a random base-36 suffix. The result is not guaranteed unique.
func Generate(companyName, title string) (string, error) {
	suffix, err := randomSuffix(suffixLength)
	if err != nil {
		return "", err
	}
	base := Slugify(companyName + " " + title)
	if base == "" {
		base = fallbackBase
	}
	return base + "-" + suffix, nil
}

// Slugify lowercases s, transliterates it to ASCII and joins the remaining
// alphanumeric runs with single hyphens.
func Slugify(s string) string {
	s = replacements.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return truncate(b.String(), maxBaseLen)
}

// truncate cuts s to at most n bytes, preferring the last hyphen boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

func randomSuffix(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[num.Int64()]
	}
	return string(b), nil
}
