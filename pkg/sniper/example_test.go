package sniper_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/varalys/sniper/pkg/sniper"
)

// ExampleSubstitute previews a rewrite without touching the files.
func ExampleSubstitute() {
	dir, _ := os.MkdirTemp("", "vault")
	defer os.RemoveAll(dir)
	_ = os.WriteFile(filepath.Join(dir, "banned.txt"), []byte("⭐🦙\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "map.json"), []byte(`{"map": {"⭐": "*"}}`), 0o644)
	notes := filepath.Join(dir, "notes")
	_ = os.Mkdir(notes, 0o755)
	_ = os.WriteFile(filepath.Join(notes, "todo.md"), []byte("⭐ ship it 🦙\n"), 0o644)

	stats, err := sniper.Substitute(context.Background(), sniper.SubstituteConfig{
		Root:       notes,
		BannedPath: filepath.Join(dir, "banned.txt"),
		MapPath:    filepath.Join(dir, "map.json"),
		DryRun:     true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("changed=%d replacements=%d unmapped=%d\n", stats.FilesChanged, stats.Replacements, stats.UnmappedBanned)
	// Output: changed=1 replacements=1 unmapped=1
}
