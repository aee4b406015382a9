package engine

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gitlab.com/tozd/go/errors"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func rels(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover_ExtensionsAndCustomExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".git/config":          "x",
		"node_modules/a.md":    "x",
		"notes/ok.md":          "hi",
		"notes/skip.txt~":      "tmp",
		"notes/skip.bin":       "x",
		"notes/inner/ok.txt":   "hello",
		"notes/inner/UP.MD":    "upper",
		"private/secret.md":    "shh",
		"private2/visible.txt": "ok",
	})

	got, err := Discover(dir, []string{".md", ".txt"}, []string{"private/*"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"node_modules/a.md", "notes/inner/UP.MD", "notes/inner/ok.txt", "notes/ok.md", "private2/visible.txt"}
	if g := rels(t, dir, got); !reflect.DeepEqual(g, want) {
		t.Fatalf("got %v want %v", g, want)
	}
}

func TestDiscover_DefaultExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".git/HEAD.md":         "x",
		".obsidian/ws.md":      "x",
		"node_modules/pkg.md":  "x",
		"sub/__pycache__/c.md": "x",
		".DS_Store":            "x",
		"keep.md":              "x",
	})

	got, err := Discover(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g := rels(t, dir, got); !reflect.DeepEqual(g, []string{"keep.md"}) {
		t.Fatalf("got %v", g)
	}

	// an explicit empty list turns the defaults off
	got, err = Discover(dir, []string{".md"}, []string{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 files without excludes, got %v", rels(t, dir, got))
	}
}

func TestDiscover_GlobAndSubstringExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a/draft-one.md": "x",
		"a/final.md":     "x",
		"b/deep/tmp.md":  "x",
		"c/archive.md":   "x",
	})

	got, err := Discover(dir, []string{".md"}, []string{"**/tmp.md", "draft-*", "archive"})
	if err != nil {
		t.Fatal(err)
	}
	if g := rels(t, dir, got); !reflect.DeepEqual(g, []string{"a/final.md"}) {
		t.Fatalf("got %v", g)
	}
}

func TestDiscover_SingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"note.md": "x", "data.csv": "x"})

	got, err := Discover(filepath.Join(dir, "note.md"), []string{".md"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != filepath.Join(dir, "note.md") {
		t.Fatalf("got %v", got)
	}

	got, err = Discover(filepath.Join(dir, "data.csv"), []string{".md"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("extension filter ignored for file root: %v", got)
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscover_SortedAndStable(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"b.md": "", "a.md": "", "c/a.md": "", "a/z.md": ""})
	first, err := Discover(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Discover(dir, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("discovery order changed: %v vs %v", first, again)
		}
	}
	want := []string{"a.md", "a/z.md", "b.md", "c/a.md"}
	if g := rels(t, dir, first); !reflect.DeepEqual(g, want) {
		t.Fatalf("got %v want %v", g, want)
	}
}
