// Package allowed parses allowlists and finds allowed spans in a line.
//
// Format: blank lines and '#' comments are ignored, a line prefixed with
// "re:" contributes a raw pattern, and any other line is a literal sequence
// allowed verbatim. Banned characters inside an allowed span are suppressed.
package allowed

import (
	"bufio"
	"io"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/pattern"
	"github.com/varalys/sniper/internal/span"
)

// ErrFileAccess is returned when an allowlist cannot be opened or read.
var ErrFileAccess = errors.Base("allowlist not readable")

const regexPrefix = "re:"

// Spec holds literal sequences and raw patterns in source order.
type Spec struct {
	Sequences []string `json:"sequences"`
	Patterns  []string `json:"patterns"`
}

// Empty reports whether the spec allows nothing.
func (s Spec) Empty() bool { return len(s.Sequences) == 0 && len(s.Patterns) == 0 }

// ParseFile reads and parses the allowlist at path.
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

// Parse reads an allowlist.
func Parse(r io.Reader) (Spec, error) {
	var spec Spec
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, regexPrefix) {
			if rx := strings.TrimSpace(line[len(regexPrefix):]); rx != "" {
				spec.Patterns = append(spec.Patterns, rx)
			}
			continue
		}
		spec.Sequences = append(spec.Sequences, line)
	}
	if err := sc.Err(); err != nil {
		return Spec{}, errors.WithStack(err)
	}
	return spec, nil
}

// Matcher finds allowed spans. A nil *Matcher is valid and never allows anything.
type Matcher struct {
	re *pattern.Regexp
}

// NewMatcher compiles spec into one alternation: every sequence escaped, then
// every pattern grouped. The earliest alternative wins when several match at
// the same position. An empty spec yields a nil matcher.
func NewMatcher(spec Spec, opts pattern.Options) (*Matcher, error) {
	if spec.Empty() {
		return nil, nil
	}
	parts := make([]string, 0, len(spec.Sequences)+len(spec.Patterns))
	for _, seq := range spec.Sequences {
		parts = append(parts, pattern.Literal(seq))
	}
	for _, rx := range spec.Patterns {
		parts = append(parts, pattern.Group(rx))
	}
	re, err := pattern.Compile(strings.Join(parts, "|"), opts)
	if err != nil {
		return nil, errors.Errorf("allowlist: %w", err)
	}
	return &Matcher{re: re}, nil
}

// Load parses the allowlist at path and compiles it. An empty path means no
// allowlist and returns a nil matcher.
func Load(path string, opts pattern.Options) (*Matcher, error) {
	if path == "" {
		return nil, nil
	}
	spec, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewMatcher(spec, opts)
}

// Spans returns the non-overlapping allowed spans in line.
func (m *Matcher) Spans(line []rune) ([]span.Span, error) {
	if m == nil || m.re == nil {
		return nil, nil
	}
	return m.re.FindAll(line)
}
