package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 2}, Span{3, 5}, false},
		{"touching left", Span{0, 3}, Span{3, 5}, false},
		{"touching right", Span{3, 5}, Span{0, 3}, false},
		{"nested", Span{0, 10}, Span{2, 3}, true},
		{"partial", Span{0, 4}, Span{3, 6}, true},
		{"identical", Span{1, 2}, Span{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestContains_EndIsExclusive(t *testing.T) {
	s := Span{Start: 3, End: 6}
	assert.False(t, s.Contains(2))
	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(6), "offset equal to End is outside the span")
	assert.True(t, AnyContains(4, []Span{{0, 1}, s}))
	assert.False(t, AnyContains(6, []Span{{0, 1}, s}))
}

func TestResolve_LongerSpanWinsAtSameStart(t *testing.T) {
	edits := []Edit{
		{Span: Span{0, 1}, Replacement: "*", Kind: MapEdit},
		{Span: Span{0, 10}, Replacement: "x", Kind: RuleEdit},
	}
	kept := Resolve(edits)
	if assert.Len(t, kept, 1) {
		assert.Equal(t, RuleEdit, kept[0].Kind)
		assert.Equal(t, Span{0, 10}, kept[0].Span)
	}
}

func TestResolve_DropsOverlapsFirstWins(t *testing.T) {
	edits := []Edit{
		{Span: Span{5, 6}, Replacement: "b"},
		{Span: Span{2, 7}, Replacement: "rule", Kind: RuleEdit},
		{Span: Span{7, 8}, Replacement: "c"},
		{Span: Span{0, 1}, Replacement: "a"},
	}
	kept := Resolve(edits)
	got := make([]Span, 0, len(kept))
	for _, e := range kept {
		got = append(got, e.Span)
	}
	assert.Equal(t, []Span{{0, 1}, {2, 7}, {7, 8}}, got)
	// input untouched
	assert.Equal(t, Span{5, 6}, edits[0].Span)
}

func TestResolve_EqualKeysKeepDeclarationOrder(t *testing.T) {
	edits := []Edit{
		{Span: Span{0, 3}, Replacement: "first", Kind: RuleEdit},
		{Span: Span{0, 3}, Replacement: "second", Kind: RuleEdit},
	}
	kept := Resolve(edits)
	if assert.Len(t, kept, 1) {
		assert.Equal(t, "first", kept[0].Replacement)
	}
}

func TestApply_RightToLeft(t *testing.T) {
	line := []rune("⭐ a 🦙 b ✨")
	kept := Resolve([]Edit{
		{Span: Span{0, 1}, Replacement: "*"},
		{Span: Span{4, 5}, Replacement: "llama"},
		{Span: Span{8, 9}, Replacement: ""},
	})
	assert.Equal(t, "* a llama b ", Apply(line, kept))
	assert.Equal(t, "⭐ a 🦙 b ✨", Apply(line, nil))
	assert.Equal(t, "⭐ a 🦙 b ✨", string(line), "source runes are not mutated")
}

func TestEditKind_String(t *testing.T) {
	assert.Equal(t, "map", MapEdit.String())
	assert.Equal(t, "rule", RuleEdit.String())
}
