// Package gcn implements parsing, normalization and comparison of land
// certificate serial numbers (số GCN): a 1-2 letter series code followed by
// a 6-8 digit number, e.g. "AA 01555158".
package gcn

import (
	"regexp"
	"strings"
)

var splitRe = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// Normalize canonicalizes a raw certificate number into "{letters} {digits}".
//
// Non-alphanumeric characters are stripped and the rest uppercased. Scanned
// identifiers sometimes carry a document-series code prepended to the true
// 1-2 letter series code, so the letter prefix is truncated by length:
//
//	4+ letters -> keep the last 2  (SOAH -> AH, SOCJ -> CJ)
//	3 letters  -> keep the last 1  (SCV -> V, SOB -> B)
//	1-2 letters -> keep as is      (AA -> AA, D -> D)
//
// The digit part is never touched: leading zeros are significant and must
// round-trip exactly. Input that does not split into letters-then-digits is
// returned cleaned but otherwise unchanged. Normalize is idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	m := splitRe.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}
	letters, digits := m[1], m[2]

	switch {
	case len(letters) >= 4:
		letters = letters[len(letters)-2:]
	case len(letters) == 3:
		letters = letters[len(letters)-1:]
	}

	return letters + " " + digits
}
