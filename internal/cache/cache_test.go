package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load should return empty DB and error
	db, err := Load(dir)
	require.Error(t, err)
	require.NotNil(t, db.Entries)

	db.Entries["a.md"] = "deadbeef"
	require.NoError(t, Save(dir, db))
	_, err = os.Stat(filepath.Join(dir, ".emoji-sniper-cache.json"))
	require.NoError(t, err)

	db2, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", db2.Entries["a.md"])
}

func TestPath_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	assert.Equal(t, filepath.Join(dir, ".git", "emoji-sniper-cache.json"), Path(dir))
}

func TestSave_NilEntries(t *testing.T) {
	require.Error(t, Save(t.TempDir(), DB{}))
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("{nope"), 0o644))
	db, err := Load(dir)
	require.Error(t, err)
	assert.Empty(t, db.Entries)
}

func TestFingerprintAndHash(t *testing.T) {
	a := Fingerprint([]byte("ab"), []byte("c"))
	b := Fingerprint([]byte("a"), []byte("bc"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Fingerprint([]byte("ab"), []byte("c")))

	h := Hash(a, []byte("hello"))
	assert.Len(t, h, 16)
	assert.Equal(t, h, Hash(a, []byte("hello")))
	assert.NotEqual(t, h, Hash(b, []byte("hello")))
	assert.NotEqual(t, h, Hash(a, []byte("hello!")))
}
