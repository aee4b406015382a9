package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes applies whenever the caller passes a nil exclude list.
var DefaultExcludes = []string{".obsidian", ".git", ".DS_Store", "__pycache__", "node_modules"}

// DefaultExtensions is the extension filter used by the CLI.
var DefaultExtensions = []string{".md", ".txt"}

// excluded reports whether the slash-separated relative path rel matches any
// pattern. A pattern ending in "/*" names a directory and matches it and
// everything below it. Other patterns match as a glob against the relative
// path or its base name, or as a plain substring.
func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if dir, ok := strings.CutSuffix(pat, "/*"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if matchGlob(pat, rel) || strings.Contains(rel, pat) {
			return true
		}
	}
	return false
}

// matchGlob tries pat against rel and its base name. A '*' may also span
// directory separators, so "sub/*.md" excludes "sub/deep/a.md".
func matchGlob(pat, rel string) bool {
	if ok, _ := doublestar.Match(pat, rel); ok {
		return true
	}
	if ok, _ := doublestar.Match(pat, filepath.Base(rel)); ok {
		return true
	}
	if strings.Contains(pat, "/") {
		// with separators hidden, every '*' matches across directories
		flat := func(s string) string { return strings.ReplaceAll(s, "/", "\x00") }
		if ok, _ := doublestar.Match(flat(pat), flat(rel)); ok {
			return true
		}
	}
	return false
}

// normalizeExts lower-cases the extensions and ensures a leading dot.
// An empty result means every file passes.
func normalizeExts(exts []string) map[string]bool {
	out := map[string]bool{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[e] = true
	}
	return out
}

func extAllowed(name string, exts map[string]bool) bool {
	if len(exts) == 0 {
		return true
	}
	return exts[strings.ToLower(filepath.Ext(name))]
}

// ParseList splits a comma-separated flag value, dropping blanks.
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
