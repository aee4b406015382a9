package sniper

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/varalys/sniper/internal/config"
)

var (
	cfgOutput  string
	cfgForce   bool
	cfgBanned  string
	cfgAllowed string
	cfgMap     string
	cfgExt     string
	cfgFormat  string
	cfgThreads int
	cfgNoColor bool
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .emoji-sniper.yml with the selected options",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	f := initCmd.Flags()
	f.StringVar(&cfgOutput, "output", ".emoji-sniper.yml", "output file path")
	f.BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	f.StringVar(&cfgBanned, "banned", "banned.txt", "banned list file")
	f.StringVar(&cfgAllowed, "allowed", "", "allowlist file")
	f.StringVar(&cfgMap, "map", "", "substitution map file")
	f.StringVar(&cfgExt, "ext", ".md,.txt", "comma-separated file extensions")
	f.StringVar(&cfgFormat, "format", "json", "default scan output format")
	f.IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	f.BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	return cfgCmd
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return errors.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		Banned:  strPtr(cfgBanned),
		Allowed: optStrPtr(cfgAllowed),
		Map:     optStrPtr(cfgMap),
		Ext:     strPtr(cfgExt),
		Format:  strPtr(cfgFormat),
		Threads: intPtr(cfgThreads),
		NoColor: boolPtr(cfgNoColor),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(cfgOutput, b, 0o644); err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func boolPtr(v bool) *bool { return &v }
