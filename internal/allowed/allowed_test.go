package allowed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/pattern"
	"github.com/varalys/sniper/internal/span"
)

func TestParse(t *testing.T) {
	body := "# allowed things\n\n🦙🦙🦙\n  ✨ brilliant  \nre: \\d+🦙\nre:   \n🦙🦙🦙\n"
	spec, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"🦙🦙🦙", "✨ brilliant", "🦙🦙🦙"}, spec.Sequences)
	assert.Equal(t, []string{`\d+🦙`}, spec.Patterns)
}

func TestNewMatcher_EmptyIsNil(t *testing.T) {
	m, err := NewMatcher(Spec{}, pattern.Options{})
	require.NoError(t, err)
	assert.Nil(t, m)

	spans, err := m.Spans([]rune("🦙🦙🦙"))
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestMatcher_SequencesAreLiteral(t *testing.T) {
	m, err := NewMatcher(Spec{Sequences: []string{"a.b", "(x)"}}, pattern.Options{})
	require.NoError(t, err)
	spans, err := m.Spans([]rune("axb a.b (x) x"))
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Start: 4, End: 7}, {Start: 8, End: 11}}, spans)
}

func TestMatcher_PatternsAreGrouped(t *testing.T) {
	// an inline flag stays scoped to its own pattern
	m, err := NewMatcher(Spec{Patterns: []string{"(?i)x", "Y"}}, pattern.Options{})
	require.NoError(t, err)
	spans, err := m.Spans([]rune("X y Y"))
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Start: 0, End: 1}, {Start: 4, End: 5}}, spans)
}

func TestMatcher_FirstAlternativeWins(t *testing.T) {
	m, err := NewMatcher(Spec{Sequences: []string{"🦙", "🦙🦙🦙"}}, pattern.Options{})
	require.NoError(t, err)
	spans, err := m.Spans([]rune("🦙🦙🦙"))
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3}}, spans)
}

func TestNewMatcher_BadPattern(t *testing.T) {
	_, err := NewMatcher(Spec{Patterns: []string{"(oops"}}, pattern.Options{})
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	m, err := Load("", pattern.Options{})
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"), pattern.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileAccess))

	p := filepath.Join(t.TempDir(), "allowed.txt")
	require.NoError(t, os.WriteFile(p, []byte("🦙🦙🦙\n"), 0o644))
	m, err = Load(p, pattern.Options{})
	require.NoError(t, err)
	spans, err := m.Spans([]rune("ok 🦙🦙🦙 here"))
	require.NoError(t, err)
	assert.Equal(t, []span.Span{{Start: 3, End: 6}}, spans)
}
