package config

import (
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned by LoadLocal and LoadGlobal when no file exists.
var ErrNoConfig = errors.Base("no config file")

// FileConfig is the on-disk YAML configuration shape for emoji-sniper.
// Every field is optional; nil means "not set here".
type FileConfig struct {
	Banned  *string  `yaml:"banned,omitempty"`
	Allowed *string  `yaml:"allowed,omitempty"`
	Map     *string  `yaml:"map,omitempty"`
	Ext     *string  `yaml:"ext,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	Names   *bool    `yaml:"names,omitempty"`
	Format  *string  `yaml:"format,omitempty"`
	Threads *int     `yaml:"threads,omitempty"`
	Cache   *bool    `yaml:"cache,omitempty"`

	ReportDir    *string `yaml:"report_dir,omitempty"`
	ReportPrefix *string `yaml:"report_prefix,omitempty"`

	// MatchTimeout bounds one user pattern match, e.g. "500ms".
	MatchTimeout *string `yaml:"match_timeout,omitempty"`

	LogFile *string `yaml:"log_file,omitempty"`
	NoColor *bool   `yaml:"no_color,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStack(err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a vault-local config file in the given root.
// It supports .emoji-sniper.yml/.yaml and emoji-sniper.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range []string{".emoji-sniper.yml", ".emoji-sniper.yaml", "emoji-sniper.yml", "emoji-sniper.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, errors.WithStack(ErrNoConfig)
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config, or "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "emoji-sniper", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, errors.WithStack(ErrNoConfig)
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, errors.WithStack(ErrNoConfig)
	}
	return LoadFile(p)
}

// MatchTimeoutDuration parses match_timeout. Unset yields zero.
func (fc FileConfig) MatchTimeoutDuration() (time.Duration, error) {
	if fc.MatchTimeout == nil || *fc.MatchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*fc.MatchTimeout)
	if err != nil {
		return 0, errors.Errorf("match_timeout: %w", err)
	}
	return d, nil
}
