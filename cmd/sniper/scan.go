package sniper

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/engine"
	"github.com/varalys/sniper/internal/report"
)

var (
	flagBanned       string
	flagAllowed      string
	flagFormat       string
	flagReport       bool
	flagReportDir    string
	flagReportPrefix string
	flagExclude      []string
	flagExt          string
	flagNoNames      bool
	flagFailOnFind   bool
	flagListFiles    bool
	flagQuiet        bool
	flagCache        bool
	flagMatchTimeout time.Duration
)

// now is replaced in tests to pin snapshot names.
var now = time.Now

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "scan <path>",
		Short:       "Report every banned character in a vault or file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{usesConfig: "true"},
		RunE:        runScan,
		Example: `
# Scan a vault and print JSON
emoji-sniper scan ~/notes

# Human-readable output, fail CI when anything is found
emoji-sniper scan docs --format txt --fail-on-find

# Only list the files that need attention
emoji-sniper scan docs --list-files`,
	}
	f := cmd.Flags()
	f.StringVar(&flagBanned, "banned", "banned.txt", "banned list file")
	f.StringVar(&flagAllowed, "allowed", "", "allowlist file")
	f.StringVar(&flagFormat, "format", "json", "output format: json | txt | table | sarif")
	f.BoolVar(&flagReport, "report", false, "also write a timestamped JSON report")
	f.StringVar(&flagReportDir, "report-dir", "log", "directory for --report")
	f.StringVar(&flagReportPrefix, "report-prefix", "emoji-scan", "file name prefix for --report")
	f.StringArrayVar(&flagExclude, "exclude", nil, "exclude pattern (repeatable; replaces the defaults)")
	f.StringVar(&flagExt, "ext", ".md,.txt", "comma-separated file extensions")
	f.BoolVar(&flagNoNames, "no-names", false, "omit Unicode character names")
	f.BoolVar(&flagFailOnFind, "fail-on-find", false, "exit 1 when anything is found")
	f.BoolVar(&flagListFiles, "list-files", false, "print only the files containing banned characters")
	f.BoolVarP(&flagQuiet, "quiet", "q", false, "omit the summary in text output")
	f.BoolVar(&flagCache, "cache", false, "skip files that scanned clean with the same lists")
	f.DurationVar(&flagMatchTimeout, "match-timeout", 0, "time limit for one allowlist pattern match (0 = 1s, negative = no limit)")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)
	flags := cmd.Flags()
	local, global := localCfg, globalCfg

	format := pickString(flags.Changed("format"), flagFormat, local.Format, global.Format)
	switch format {
	case "json", "txt", "table", "sarif":
	default:
		return errors.Errorf("unknown format %q (want json, txt, table or sarif)", format)
	}
	timeout, err := pickDuration(flags.Changed("match-timeout"), flagMatchTimeout, local, global)
	if err != nil {
		return err
	}

	cfg := engine.ScanConfig{
		Root:         args[0],
		BannedPath:   pickString(flags.Changed("banned"), flagBanned, local.Banned, global.Banned),
		AllowedPath:  pickString(flags.Changed("allowed"), flagAllowed, local.Allowed, global.Allowed),
		Extensions:   extensions(pickString(flags.Changed("ext"), flagExt, local.Ext, global.Ext)),
		Excludes:     pickExcludes(flags.Changed("exclude"), flagExclude, local.Exclude, global.Exclude),
		IncludeNames: !flagNoNames,
		Threads:      pickInt(flags.Changed("threads"), flagThreads, local.Threads, global.Threads),
		MatchTimeout: timeout,
		Cache:        pickBool(flags.Changed("cache"), flagCache, local.Cache, global.Cache),
	}
	if !flags.Changed("no-names") {
		cfg.IncludeNames = pickBool(false, true, local.Names, global.Names)
	}
	log.Debug().Strs("extensions", cfg.Extensions).Strs("excludes", cfg.Excludes).Int("threads", cfg.Threads).Msg("scan settings")

	log.Info().Str("path", cfg.Root).Msg("starting scan")
	res, err := engine.Scan(ctx, cfg)
	if err != nil {
		return err
	}
	payload := report.NewPayload(res.Stats, res.Occurrences)

	out := cmd.OutOrStdout()
	if err := writeScanOutput(out, format, payload, noColor(flags.Changed("no-color"))); err != nil {
		return err
	}

	if flagReport {
		dir := pickString(flags.Changed("report-dir"), flagReportDir, local.ReportDir, global.ReportDir)
		prefix := pickString(flags.Changed("report-prefix"), flagReportPrefix, local.ReportPrefix, global.ReportPrefix)
		if path, err := report.WriteSnapshot(dir, prefix, payload, now()); err != nil {
			log.Error().Err(err).Msg("failed to write report")
		} else {
			log.Info().Str("path", path).Msg("report written")
		}
	}

	if report.ShouldFail(res.Stats, flagFailOnFind) {
		return exitError{code: 1}
	}
	return nil
}

func writeScanOutput(w io.Writer, format string, p report.Payload, noColor bool) error {
	if flagListFiles {
		report.WriteFileList(w, p.Results)
		return nil
	}
	switch format {
	case "json":
		return report.WriteJSON(w, p)
	case "sarif":
		return report.WriteSARIF(w, p, version)
	case "table":
		if err := report.WriteTable(w, p.Results); err != nil {
			return err
		}
	default:
		report.WriteText(w, p.Results)
	}
	if !flagQuiet {
		fmt.Fprintln(w)
		report.WriteSummary(w, p.Stats, report.PrintOptions{Color: report.ColorEnabled(w, noColor)})
	}
	return nil
}
