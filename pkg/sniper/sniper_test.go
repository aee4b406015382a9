package sniper

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/tozd/go/errors"
)

func TestScan_Smoke(t *testing.T) {
	dir := t.TempDir()
	banned := filepath.Join(t.TempDir(), "banned.txt")
	if err := os.WriteFile(banned, []byte("⭐\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("a ⭐ b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Scan(context.Background(), ScanConfig{Root: dir, BannedPath: banned, IncludeNames: true})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if res.Stats.Occurrences != 1 || len(res.Occurrences) != 1 {
		t.Fatalf("expected one occurrence, got %+v", res)
	}

	var buf bytes.Buffer
	if err := MarshalReport(&buf, NewReport(res)); err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.Stats != res.Stats || back.Results[0].Col != 3 || *back.Results[0].Name != "WHITE MEDIUM STAR" {
		t.Fatalf("report did not survive a round trip: %+v", back)
	}
}

func TestUnmarshalReport_EmptyResults(t *testing.T) {
	rep, err := UnmarshalReport(bytes.NewBufferString(`{"stats": {"files_scanned": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Stats.FilesScanned != 2 || rep.Results == nil || len(rep.Results) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if _, err := UnmarshalReport(bytes.NewBufferString("{")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestDiscover_Defaults(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"a.md", "b.txt", "c.go", filepath.Join(".git", "x.md")} {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := Discover(dir, []string{".md", ".txt"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != filepath.Join(dir, "a.md") || files[1] != filepath.Join(dir, "b.txt") {
		t.Fatalf("unexpected files: %v", files)
	}
	if _, err := Discover(filepath.Join(dir, "missing"), nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
