package subst

import (
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/allowed"
	"github.com/varalys/sniper/internal/banned"
	"github.com/varalys/sniper/internal/pattern"
	"github.com/varalys/sniper/internal/span"
)

type compiledRule struct {
	re          *pattern.Regexp
	replacement string
}

// Rewriter applies a substitution Map to single lines. It is immutable after
// construction and safe for concurrent use.
type Rewriter struct {
	banned  *banned.Matcher
	allowed *allowed.Matcher
	mapping Map
	rules   []compiledRule
}

// NewRewriter compiles the rules of m. allowedM may be nil.
func NewRewriter(bannedM *banned.Matcher, allowedM *allowed.Matcher, m Map, opts pattern.Options) (*Rewriter, error) {
	rw := &Rewriter{banned: bannedM, allowed: allowedM, mapping: m}
	for i, r := range m.Rules {
		re, err := pattern.Compile(r.Pattern, opts)
		if err != nil {
			return nil, errors.Errorf("substitution rule %d: %w", i, err)
		}
		rw.rules = append(rw.rules, compiledRule{re: re, replacement: r.Replacement})
	}
	return rw, nil
}

// LineResult is the outcome of rewriting one line.
type LineResult struct {
	Text         string
	Changed      bool
	Replacements int
	Unmapped     int
	Edits        []span.Edit
}

// Line rewrites one line. Rule matches are candidates only when they avoid
// every allowed span and cover at least one banned rune; banned runes outside
// allowed spans become single-rune candidates when the mapping has an entry.
// Conflicts are settled by span.Resolve and the survivors applied right to
// left. A banned rune with no mapping counts as unmapped unless a kept rule
// edit covers it.
func (rw *Rewriter) Line(line []rune) (LineResult, error) {
	allowedSpans, err := rw.allowed.Spans(line)
	if err != nil {
		return LineResult{}, err
	}

	var edits []span.Edit
	for _, rule := range rw.rules {
		matches, err := rule.re.FindAll(line)
		if err != nil {
			return LineResult{}, err
		}
		for _, s := range matches {
			if span.AnyOverlap(s, allowedSpans) {
				continue
			}
			if !rw.banned.ContainsIn(line, s.Start, s.End) {
				continue
			}
			edits = append(edits, span.Edit{Span: s, Replacement: rule.replacement, Kind: span.RuleEdit})
		}
	}

	var unmapped []int
	for _, i := range rw.banned.FindAll(line) {
		s := span.Span{Start: i, End: i + 1}
		if span.AnyOverlap(s, allowedSpans) {
			continue
		}
		rep, ok := rw.mapping.Lookup(line[i])
		if !ok {
			unmapped = append(unmapped, i)
			continue
		}
		edits = append(edits, span.Edit{Span: s, Replacement: rep, Kind: span.MapEdit})
	}

	kept := span.Resolve(edits)
	res := LineResult{Edits: kept, Replacements: len(kept)}
	for _, i := range unmapped {
		if !coveredByRule(i, kept) {
			res.Unmapped++
		}
	}
	if len(kept) == 0 {
		res.Text = string(line)
		return res, nil
	}
	res.Text = span.Apply(line, kept)
	res.Changed = res.Text != string(line)
	return res, nil
}

func coveredByRule(i int, kept []span.Edit) bool {
	for _, e := range kept {
		if e.Kind == span.RuleEdit && e.Contains(i) {
			return true
		}
	}
	return false
}
