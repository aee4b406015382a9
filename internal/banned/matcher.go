package banned

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Matcher tests single code points against a compiled Spec. It is immutable
// and safe for concurrent use.
type Matcher struct {
	table *unicode.RangeTable
}

// NewMatcher compiles spec into a character-class matcher. Each range
// contributes an inclusive interval and each literal its exact code point. An
// empty spec yields a matcher that matches nothing.
func NewMatcher(spec Spec) *Matcher {
	if spec.Empty() {
		return &Matcher{table: &unicode.RangeTable{}}
	}
	// rangetable.New sorts its argument in place.
	lits := append([]rune(nil), spec.Literals...)
	return &Matcher{table: rangetable.Merge(rangesTable(spec.Ranges), rangetable.New(lits...))}
}

// rangesTable lays merged ranges out as a RangeTable, splitting any interval
// that straddles the 16-bit boundary.
func rangesTable(ranges []Range) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	for _, r := range ranges {
		lo, hi := r.Start, r.End
		if lo <= 0xFFFF {
			h16 := hi
			if h16 > 0xFFFF {
				h16 = 0xFFFF
			}
			t.R16 = append(t.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(h16), Stride: 1})
			if h16 <= unicode.MaxLatin1 {
				t.LatinOffset++
			}
			lo = 0x10000
		}
		if hi >= lo {
			t.R32 = append(t.R32, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
		}
	}
	return t
}

// Match reports whether r is banned.
func (m *Matcher) Match(r rune) bool {
	if m == nil || m.table == nil {
		return false
	}
	return unicode.Is(m.table, r)
}

// FindAll returns the offsets of every banned rune in line, left to right.
func (m *Matcher) FindAll(line []rune) []int {
	var out []int
	for i, r := range line {
		if m.Match(r) {
			out = append(out, i)
		}
	}
	return out
}

// ContainsIn reports whether any rune in line[start:end] is banned.
func (m *Matcher) ContainsIn(line []rune, start, end int) bool {
	if start < 0 {
		start = 0
	}
	if end > len(line) {
		end = len(line)
	}
	for i := start; i < end; i++ {
		if m.Match(line[i]) {
			return true
		}
	}
	return false
}
