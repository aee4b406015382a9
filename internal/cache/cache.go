// Package cache remembers files that scanned clean so unchanged files can be
// skipped on the next run.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"gitlab.com/tozd/go/errors"
)

const fileName = "emoji-sniper-cache.json"

type DB struct {
	// Path relative to the cache root -> content hash (xxhash64 hex)
	Entries map[string]string `json:"entries"`
}

// Path returns where the cache for root is stored: inside .git when present,
// otherwise as a dotfile in root.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, fileName)
	}
	return filepath.Join(root, "."+fileName)
}

// Load reads the cache for root. The returned DB always has a usable Entries
// map, even when an error is returned.
func Load(root string) (DB, error) {
	var db DB
	b, err := os.ReadFile(Path(root))
	if err != nil {
		return DB{Entries: map[string]string{}}, errors.WithStack(err)
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return DB{Entries: map[string]string{}}, errors.WithStack(err)
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(Path(root), b, 0o644))
}

// Fingerprint digests everything that influences a scan result apart from
// the file itself. Parts are length-prefixed so that boundaries matter.
func Fingerprint(parts ...[]byte) uint64 {
	d := xxhash.New()
	var n [20]byte
	for _, p := range parts {
		_, _ = d.Write(strconv.AppendInt(n[:0], int64(len(p)), 10))
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(p)
	}
	return d.Sum64()
}

// Hash combines a fingerprint with file content into a cache value.
func Hash(fingerprint uint64, data []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatUint(fingerprint, 16))
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(data)
	return hex16(d.Sum64())
}

func hex16(sum uint64) string {
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
