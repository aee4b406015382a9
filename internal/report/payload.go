package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/types"
)

// Payload is the machine-readable scan report.
type Payload struct {
	Stats   types.ScanStats    `json:"stats"`
	Results []types.Occurrence `json:"results"`
}

// NewPayload builds a report; results is never encoded as null.
func NewPayload(stats types.ScanStats, results []types.Occurrence) Payload {
	if results == nil {
		results = []types.Occurrence{}
	}
	return Payload{Stats: stats, Results: results}
}

// WriteJSON writes p indented by two spaces. Characters are written as-is,
// without \u escapes for emoji or '<'.
func WriteJSON(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(p))
}

// SnapshotName returns "<prefix>_<YYYYMMDD_HHMMSS>.json".
func SnapshotName(prefix string, now time.Time) string {
	return prefix + "_" + now.Format("20060102_150405") + ".json"
}

// WriteSnapshot creates dir if needed and writes p there under SnapshotName.
func WriteSnapshot(dir, prefix string, p Payload, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, p); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SnapshotName(prefix, now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.WithStack(err)
	}
	return path, nil
}
