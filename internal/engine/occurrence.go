package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/runenames"

	"github.com/varalys/sniper/internal/span"
	"github.com/varalys/sniper/internal/types"
)

// suppressed reports whether offset i lies inside an allowed span. An offset
// equal to a span's end is outside it.
func suppressed(i int, allowedSpans []span.Span) bool {
	return span.AnyContains(i, allowedSpans)
}

func newOccurrence(path string, line, offset int, r rune, includeNames bool) types.Occurrence {
	o := types.Occurrence{
		File:      path,
		Line:      line,
		Col:       offset + 1,
		Char:      string(r),
		Codepoint: FormatCodepoint(r),
	}
	if includeNames {
		name := CharName(r)
		o.Name = &name
	}
	return o
}

// FormatCodepoint renders r as U+ followed by at least four uppercase hex digits.
func FormatCodepoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// CharName returns the Unicode name of r, or types.UnnamedChar when the code
// point has no name (unassigned, control, private use, surrogate). Code points
// whose names are derived from the code point itself are named algorithmically.
func CharName(r rune) string {
	name := runenames.Name(r)
	switch {
	case name == "":
		return types.UnnamedChar
	case strings.HasPrefix(name, "<"):
		if derived, ok := derivedName(r); ok {
			return derived
		}
		return types.UnnamedChar
	}
	return name
}

// Ideograph blocks named "<PREFIX>-<hex code point>".
var derivedBlocks = []struct {
	lo, hi rune
	prefix string
}{
	{0x3400, 0x4DBF, "CJK UNIFIED IDEOGRAPH"},
	{0x4E00, 0x9FFF, "CJK UNIFIED IDEOGRAPH"},
	{0x20000, 0x2A6DF, "CJK UNIFIED IDEOGRAPH"},
	{0x2A700, 0x2EE5F, "CJK UNIFIED IDEOGRAPH"},
	{0x30000, 0x323AF, "CJK UNIFIED IDEOGRAPH"},
	{0xF900, 0xFAFF, "CJK COMPATIBILITY IDEOGRAPH"},
	{0x2F800, 0x2FA1F, "CJK COMPATIBILITY IDEOGRAPH"},
	{0x17000, 0x187FF, "TANGUT IDEOGRAPH"},
	{0x18D00, 0x18D7F, "TANGUT IDEOGRAPH"},
	{0x18B00, 0x18CFF, "KHITAN SMALL SCRIPT CHARACTER"},
	{0x1B170, 0x1B2FF, "NUSHU CHARACTER"},
}

const (
	hangulBase  = 0xAC00
	hangulLast  = 0xD7A3
	jamoVCount  = 21
	jamoTCount  = 28
	jamoVTCount = jamoVCount * jamoTCount
)

var (
	jamoL = []string{"G", "GG", "N", "D", "DD", "R", "M", "B", "BB", "S", "SS", "", "J", "JJ", "C", "K", "T", "P", "H"}
	jamoV = []string{"A", "AE", "YA", "YAE", "EO", "E", "YEO", "YE", "O", "WA", "WAE", "OE", "YO", "U", "WEO", "WE", "WI", "YU", "EU", "YI", "I"}
	jamoT = []string{"", "G", "GG", "GS", "N", "NJ", "NH", "D", "L", "LG", "LM", "LB", "LS", "LT", "LP", "LH", "M", "B", "BS", "S", "SS", "NG", "J", "C", "K", "T", "P", "H"}
)

// derivedName builds the name of a Hangul syllable from its jamo short names,
// or of an ideograph from its code point.
func derivedName(r rune) (string, bool) {
	if r >= hangulBase && r <= hangulLast {
		s := int(r - hangulBase)
		return "HANGUL SYLLABLE " + jamoL[s/jamoVTCount] + jamoV[(s%jamoVTCount)/jamoTCount] + jamoT[s%jamoTCount], true
	}
	for _, b := range derivedBlocks {
		if r >= b.lo && r <= b.hi {
			return fmt.Sprintf("%s-%04X", b.prefix, r), true
		}
	}
	return "", false
}
