package sniper

import (
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/config"
	"github.com/varalys/sniper/internal/engine"
)

// loadConfigs returns the local and global file configs for root. With
// --config the named file replaces the local lookup and must exist.
func loadConfigs(root string) (local, global config.FileConfig, err error) {
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	} else if !errors.Is(err, config.ErrNoConfig) {
		return local, global, err
	}
	if flagConfig != "" {
		local, err = config.LoadFile(flagConfig)
		return local, global, err
	}
	dir := root
	if st, statErr := os.Stat(root); statErr == nil && !st.IsDir() {
		dir = filepath.Dir(root)
	}
	if c, err := config.LoadLocal(dir); err == nil {
		local = c
	} else if !errors.Is(err, config.ErrNoConfig) {
		return local, global, err
	}
	return local, global, nil
}

// The pick helpers resolve one setting: an explicitly set flag wins, then
// the local config, then the global config, then the flag default.

func pickString(changed bool, cli string, local, global *string) string {
	if changed {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return cli
}

func pickInt(changed bool, cli int, local, global *int) int {
	if changed {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return cli
}

func pickBool(changed bool, cli bool, local, global *bool) bool {
	if changed {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return cli
}

// pickExcludes returns nil when nothing was configured so the engine applies
// its default exclude list.
func pickExcludes(changed bool, cli, local, global []string) []string {
	switch {
	case changed:
		return cli
	case local != nil:
		return local
	case global != nil:
		return global
	}
	return nil
}

func pickDuration(changed bool, cli time.Duration, local, global config.FileConfig) (time.Duration, error) {
	if changed {
		return cli, nil
	}
	for _, fc := range []config.FileConfig{local, global} {
		if fc.MatchTimeout == nil {
			continue
		}
		return fc.MatchTimeoutDuration()
	}
	return cli, nil
}

func extensions(s string) []string {
	return engine.ParseList(s)
}
