package analyzer

import (
	"strconv"
	"unicode"

	"asdecompile/ast"
)

// Shift100 decodes a known malware-family string obfuscation: every
// code point of a non-ASCII string literal has been shifted up by
// 100, so printing decrements each one back (§4.5).
type Shift100 struct{}

// RewriteStringLiteral decodes n.Value when it is not pure ASCII;
// ASCII-only strings print unchanged, matching the original source's
// own guard (it only bothers decoding when the string isn't already
// plain text).
func (Shift100) RewriteStringLiteral(p Printer, target, command string, n *ast.StringLiteral) (string, bool) {
	if isASCII(n.Value) {
		return "", false
	}
	runes := []rune(n.Value)
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = r - 100
	}
	return strconv.Quote(string(out)), true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
