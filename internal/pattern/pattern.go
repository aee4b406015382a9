// Package pattern compiles user-supplied patterns (allowlist "re:" lines and
// substitution rules) with a backtracking engine whose syntax follows the
// common Perl/Python dialect: non-capturing groups, lookaround, named groups
// in either (?P<name>) or (?<name>) form, \uXXXX and \UXXXXXXXX escapes, and
// leftmost first-alternative semantics. Match positions are rune offsets.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/span"
)

// DefaultMatchTimeout bounds a single match attempt when Options leaves it unset.
const DefaultMatchTimeout = time.Second

// Options tune pattern compilation.
type Options struct {
	// MatchTimeout aborts a runaway match; zero means DefaultMatchTimeout and a
	// negative value disables the limit.
	MatchTimeout time.Duration
}

func (o Options) timeout() time.Duration {
	switch {
	case o.MatchTimeout == 0:
		return DefaultMatchTimeout
	case o.MatchTimeout < 0:
		return 0
	default:
		return o.MatchTimeout
	}
}

// Regexp is a compiled user pattern.
type Regexp struct {
	expr string
	re   *regexp2.Regexp
}

// Compile parses expr.
func Compile(expr string, opts Options) (*Regexp, error) {
	re, err := regexp2.Compile(expandCodepoints(expr), regexp2.None)
	if err != nil {
		return nil, errors.Errorf("compile pattern %q: %w", expr, err)
	}
	if d := opts.timeout(); d > 0 {
		re.MatchTimeout = d
	}
	return &Regexp{expr: expr, re: re}, nil
}

// FindAll returns the spans of all successive non-overlapping matches in line.
func (r *Regexp) FindAll(line []rune) ([]span.Span, error) {
	m, err := r.re.FindRunesMatch(line)
	if err != nil {
		return nil, errors.Errorf("match %q: %w", r.expr, err)
	}
	var out []span.Span
	for m != nil {
		out = append(out, span.Span{Start: m.Index, End: m.Index + m.Length})
		m, err = r.re.FindNextMatch(m)
		if err != nil {
			return nil, errors.Errorf("match %q: %w", r.expr, err)
		}
	}
	return out, nil
}

// Literal returns a pattern source that matches s verbatim.
func Literal(s string) string {
	return regexp2.Escape(s)
}

// Group wraps expr so it cannot change the precedence of neighbouring
// alternatives.
func Group(expr string) string {
	return "(?:" + expr + ")"
}

// expandCodepoints rewrites constructs the engine does not understand:
// \UXXXXXXXX escapes become \uXXXX or the literal rune, and Python-style named
// groups (?P<name>...) and backreferences (?P=name) become (?<name>...) and
// \k<name>. Escaped backslashes are left alone.
func expandCodepoints(expr string) string {
	if !strings.Contains(expr, `\U`) && !strings.Contains(expr, "(?P") {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '(' {
			rest := expr[i:]
			if strings.HasPrefix(rest, "(?P<") {
				b.WriteString("(?<")
				i += 3
				continue
			}
			if strings.HasPrefix(rest, "(?P=") {
				if end := strings.IndexByte(rest, ')'); end > 4 {
					b.WriteString(`\k<` + rest[4:end] + ">")
					i += end
					continue
				}
			}
		}
		if c != '\\' || i+1 >= len(expr) {
			b.WriteByte(c)
			continue
		}
		next := expr[i+1]
		if next == 'U' && i+10 <= len(expr) {
			if v, err := strconv.ParseUint(expr[i+2:i+10], 16, 32); err == nil && v <= 0x10FFFF {
				if v <= 0xFFFF {
					fmt.Fprintf(&b, `\u%04X`, v)
				} else {
					b.WriteRune(rune(v))
				}
				i += 9
				continue
			}
		}
		b.WriteByte(c)
		b.WriteByte(next)
		i++
	}
	return b.String()
}
