// Package span models half-open rune ranges within a line and the edit
// resolution used when rewriting banned characters.
package span

import "sort"

// Span is a half-open [Start, End) range of rune offsets within one line.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset i lies in [Start, End).
func (s Span) Contains(i int) bool { return s.Start <= i && i < s.End }

// Overlaps reports whether a and b share at least one offset.
func Overlaps(a, b Span) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

// AnyOverlap reports whether s overlaps any of spans.
func AnyOverlap(s Span, spans []Span) bool {
	for _, o := range spans {
		if Overlaps(s, o) {
			return true
		}
	}
	return false
}

// AnyContains reports whether offset i falls inside any of spans.
func AnyContains(i int, spans []Span) bool {
	for _, o := range spans {
		if o.Contains(i) {
			return true
		}
	}
	return false
}

// EditKind tags where an edit candidate came from.
type EditKind int

const (
	// MapEdit replaces one banned rune using the substitution mapping.
	MapEdit EditKind = iota
	// RuleEdit replaces a pattern-rule match that covers banned content.
	RuleEdit
)

func (k EditKind) String() string {
	switch k {
	case RuleEdit:
		return "rule"
	default:
		return "map"
	}
}

// Edit is a candidate replacement of Span with Replacement.
type Edit struct {
	Span
	Replacement string
	Kind        EditKind
}

// Resolve picks the non-conflicting subset of edits. Candidates are ordered by
// start ascending and, at equal start, by length descending; a sweep then keeps
// an edit only when it starts at or after the end of the previously kept one.
// Ties on both keys keep their input order. The input slice is not modified.
func Resolve(edits []Edit) []Edit {
	if len(edits) == 0 {
		return nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Len() > sorted[j].Len()
	})

	kept := make([]Edit, 0, len(sorted))
	lastEnd := -1
	for _, e := range sorted {
		if e.Start < lastEnd {
			continue
		}
		kept = append(kept, e)
		lastEnd = e.End
	}
	return kept
}

// Apply rewrites line with the kept edits, which must be sorted and disjoint
// as returned by Resolve. Edits are applied right to left.
func Apply(line []rune, kept []Edit) string {
	if len(kept) == 0 {
		return string(line)
	}
	buf := line
	for i := len(kept) - 1; i >= 0; i-- {
		e := kept[i]
		rep := []rune(e.Replacement)
		next := make([]rune, 0, len(buf)-e.Len()+len(rep))
		next = append(next, buf[:e.Start]...)
		next = append(next, rep...)
		next = append(next, buf[e.End:]...)
		buf = next
	}
	return string(buf)
}
