// Package subst loads substitution maps and rewrites lines by replacing
// banned characters outside allowed spans.
package subst

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ErrFileAccess is returned when the substitution map cannot be read or decoded.
var ErrFileAccess = errors.Base("substitution map not readable")

// Rule replaces every match of Pattern with Replacement. Rules are tried in
// declaration order.
type Rule struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Map is a single-character replacement table plus ordered pattern rules.
type Map struct {
	Mapping map[rune]string
	Rules   []Rule
}

// Lookup returns the replacement for r.
func (m Map) Lookup(r rune) (string, bool) {
	rep, ok := m.Mapping[r]
	return rep, ok
}

// document is the on-disk shape. Values are decoded loosely so that malformed
// entries can be skipped instead of failing the whole file.
type document struct {
	Map   map[string]any `json:"map" yaml:"map"`
	Regex []any          `json:"regex" yaml:"regex"`
}

// Load reads a substitution map. Files ending in .yml or .yaml are decoded as
// YAML, anything else as JSON.
func Load(path string) (Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Map{}, errors.Errorf("%w: %s: %s", ErrFileAccess, path, err)
	}
	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return Map{}, errors.Errorf("%w: %s: %s", ErrFileAccess, path, err)
	}
	return fromDocument(doc), nil
}

// Parse decodes a JSON substitution map.
func Parse(b []byte) (Map, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Map{}, errors.WithStack(err)
	}
	return fromDocument(doc), nil
}

func fromDocument(doc document) Map {
	m := Map{Mapping: make(map[rune]string, len(doc.Map))}
	for k, v := range doc.Map {
		rep, ok := v.(string)
		if !ok || utf8.RuneCountInString(k) != 1 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(k)
		m.Mapping[r] = rep
	}
	for _, item := range doc.Regex {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		pat, okP := obj["pattern"].(string)
		rep, okR := obj["replacement"].(string)
		if !okP || !okR {
			continue
		}
		m.Rules = append(m.Rules, Rule{Pattern: pat, Replacement: rep})
	}
	return m
}
