// Package config loads emoji-sniper configuration from local and global YAML
// files. It is internal; CLI code applies the precedence rules and maps the
// result into engine configuration.
package config
