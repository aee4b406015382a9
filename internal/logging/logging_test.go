package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, Level(0))
	assert.Equal(t, zerolog.InfoLevel, Level(1))
	assert.Equal(t, zerolog.DebugLevel, Level(2))
	assert.Equal(t, zerolog.DebugLevel, Level(5))
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Verbosity: 1, NoColor: true})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "a.md").Msg("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "path=a.md")
}

func TestNew_LogFileGetsJSON(t *testing.T) {
	var buf bytes.Buffer
	p := filepath.Join(t.TempDir(), "log", "sniper.log")
	logger, closer, err := New(&buf, Options{Verbosity: 2, LogFile: p, NoColor: true})
	require.NoError(t, err)

	ctx := logger.WithContext(context.Background())
	zerolog.Ctx(ctx).Debug().Int("files", 3).Msg("discovered files")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "discovered files", entry["message"])
	assert.Equal(t, float64(3), entry["files"])
	assert.Contains(t, buf.String(), "discovered files")
}

func TestNew_BadLogFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	_, closer, err := New(&bytes.Buffer{}, Options{LogFile: filepath.Join(blocker, "sub", "x.log")})
	require.Error(t, err)
	require.NotNil(t, closer)
}
