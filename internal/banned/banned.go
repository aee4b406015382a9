// Package banned parses banned-character lists and compiles them into a
// single code-point matcher.
//
// A banned list is line oriented. Blank lines and lines starting with '#' are
// ignored. A line containing a \UXXXXXXXX-\UYYYYYYYY token declares an
// inclusive code-point range; a line made of exactly two characters joined by
// '-' (for example "😀-😃") declares a range between them; any other line
// contributes each of its code points as a literal.
package banned

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// ErrFileAccess is returned when the banned list cannot be opened or read.
var ErrFileAccess = errors.Base("banned list not readable")

var (
	hexRange  = regexp.MustCompile(`\\U([0-9A-Fa-f]{8})\s*-\s*\\U([0-9A-Fa-f]{8})`)
	charRange = regexp.MustCompile(`^(.)\s*-\s*(.)$`)
)

// Range is an inclusive code-point interval.
type Range struct {
	Start rune `json:"start"`
	End   rune `json:"end"`
}

// Spec is a normalized banned list: sorted, disjoint, merged ranges plus the
// distinct literal code points in first-seen order. Ranges and literals are
// not cross-deduplicated.
type Spec struct {
	Ranges   []Range `json:"ranges"`
	Literals []rune  `json:"literals"`
}

// Empty reports whether the spec bans nothing.
func (s Spec) Empty() bool { return len(s.Ranges) == 0 && len(s.Literals) == 0 }

// ParseFile reads and parses the banned list at path.
func ParseFile(path string) (Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, errors.Errorf("%w: %s: %s", ErrFileAccess, path, err)
	}
	defer f.Close()
	spec, err := Parse(f)
	if err != nil {
		return Spec{}, errors.Errorf("%w: %s: %s", ErrFileAccess, path, err)
	}
	return spec, nil
}

// Parse reads a banned list. Malformed lines are never errors; they fall back
// to literal interpretation. Only read failures are reported.
func Parse(r io.Reader) (Spec, error) {
	var ranges []Range
	var literals []rune
	seen := map[rune]bool{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rg, ok := parseHexRange(line); ok {
			ranges = append(ranges, rg)
			continue
		}
		if rg, ok := parseCharRange(line); ok {
			ranges = append(ranges, rg)
			continue
		}
		for _, ch := range line {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			literals = append(literals, ch)
		}
	}
	if err := sc.Err(); err != nil {
		return Spec{}, errors.WithStack(err)
	}
	return Spec{Ranges: MergeRanges(ranges), Literals: literals}, nil
}

func parseHexRange(line string) (Range, bool) {
	m := hexRange.FindStringSubmatch(line)
	if m == nil {
		return Range{}, false
	}
	a, errA := strconv.ParseUint(m[1], 16, 32)
	b, errB := strconv.ParseUint(m[2], 16, 32)
	if errA != nil || errB != nil {
		return Range{}, false
	}
	return ordered(clamp(a), clamp(b)), true
}

func parseCharRange(line string) (Range, bool) {
	m := charRange.FindStringSubmatch(line)
	if m == nil {
		return Range{}, false
	}
	if utf8.RuneCountInString(m[1]) != 1 || utf8.RuneCountInString(m[2]) != 1 {
		return Range{}, false
	}
	a, _ := utf8.DecodeRuneInString(m[1])
	b, _ := utf8.DecodeRuneInString(m[2])
	return ordered(a, b), true
}

// clamp caps eight-digit escapes beyond the Unicode code space.
func clamp(v uint64) rune {
	if v > unicode.MaxRune {
		return unicode.MaxRune
	}
	return rune(v)
}

func ordered(a, b rune) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// MergeRanges sorts ranges by start and merges any range that overlaps or is
// adjacent to its predecessor. The result is sorted, disjoint and minimal, so
// merging it again returns an equal slice.
func MergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if int64(r.Start) <= int64(last.End)+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
