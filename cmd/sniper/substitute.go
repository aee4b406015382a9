package sniper

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/engine"
	"github.com/varalys/sniper/internal/report"
)

var (
	subBanned       string
	subAllowed      string
	subMap          string
	subExt          string
	subExclude      []string
	subDryRun       bool
	subMatchTimeout time.Duration
)

func newSubstituteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "substitute <path>",
		Short:       "Rewrite banned characters using a substitution map",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{usesConfig: "true"},
		RunE:        runSubstitute,
		Example: `
# Preview what would change
emoji-sniper substitute ~/notes --map map.json --dry-run

# Apply regex rules and per-character replacements
emoji-sniper substitute ~/notes --map map.yml --allowed allowed.txt`,
	}
	f := cmd.Flags()
	f.StringVar(&subBanned, "banned", "banned.txt", "banned list file")
	f.StringVar(&subAllowed, "allowed", "", "allowlist file")
	f.StringVar(&subMap, "map", "", "substitution map (JSON, or YAML by extension)")
	f.StringVar(&subExt, "ext", ".md,.txt", "comma-separated file extensions")
	f.StringArrayVar(&subExclude, "exclude", nil, "exclude pattern (repeatable; replaces the defaults)")
	f.BoolVar(&subDryRun, "dry-run", false, "report what would change without writing")
	f.DurationVar(&subMatchTimeout, "match-timeout", 0, "time limit for one pattern match (0 = 1s, negative = no limit)")
	return cmd
}

func runSubstitute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	local, global := localCfg, globalCfg

	mapPath := pickString(flags.Changed("map"), subMap, local.Map, global.Map)
	if mapPath == "" {
		return errors.New(`required flag "map" not set`)
	}
	timeout, err := pickDuration(flags.Changed("match-timeout"), subMatchTimeout, local, global)
	if err != nil {
		return err
	}

	cfg := engine.SubstituteConfig{
		Root:         args[0],
		BannedPath:   pickString(flags.Changed("banned"), subBanned, local.Banned, global.Banned),
		AllowedPath:  pickString(flags.Changed("allowed"), subAllowed, local.Allowed, global.Allowed),
		MapPath:      mapPath,
		Extensions:   extensions(pickString(flags.Changed("ext"), subExt, local.Ext, global.Ext)),
		Excludes:     pickExcludes(flags.Changed("exclude"), subExclude, local.Exclude, global.Exclude),
		DryRun:       subDryRun,
		Threads:      pickInt(flags.Changed("threads"), flagThreads, local.Threads, global.Threads),
		MatchTimeout: timeout,
	}

	zerolog.Ctx(ctx).Info().Str("path", cfg.Root).Bool("dry_run", cfg.DryRun).Msg("starting substitution")
	stats, err := engine.Substitute(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report.WriteSubstitutionSummary(out, stats, report.PrintOptions{Color: report.ColorEnabled(out, noColor(flags.Changed("no-color")))})
	if stats.Errors > 0 {
		return exitError{code: 1}
	}
	return nil
}
