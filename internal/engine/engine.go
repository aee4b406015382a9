package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/varalys/sniper/internal/allowed"
	"github.com/varalys/sniper/internal/banned"
	"github.com/varalys/sniper/internal/cache"
	"github.com/varalys/sniper/internal/pattern"
	"github.com/varalys/sniper/internal/subst"
	"github.com/varalys/sniper/internal/types"
)

// ErrConfiguration marks failures that abort a run before any file is read:
// unreadable banned list, allowlist or substitution map, and patterns that
// do not compile.
var ErrConfiguration = errors.Base("configuration error")

// ScanConfig controls a scan run.
type ScanConfig struct {
	Root        string
	BannedPath  string
	AllowedPath string // empty means no allowlist
	Extensions  []string
	// Excludes nil means DefaultExcludes.
	Excludes     []string
	IncludeNames bool
	Threads      int
	MatchTimeout time.Duration
	// Cache skips files that scanned clean with the same inputs last time.
	Cache bool
}

// SubstituteConfig controls a substitution run.
type SubstituteConfig struct {
	Root         string
	BannedPath   string
	AllowedPath  string
	MapPath      string
	Extensions   []string
	Excludes     []string
	DryRun       bool
	Threads      int
	MatchTimeout time.Duration
}

// Result contains occurrences in discovery, line and column order plus run
// statistics.
type Result struct {
	Occurrences []types.Occurrence
	Stats       types.ScanStats
}

func configError(err error) error {
	return errors.Errorf("%w: %s", ErrConfiguration, err)
}

func loadMatchers(bannedPath, allowedPath string, opts pattern.Options) (*banned.Matcher, *allowed.Matcher, error) {
	bspec, err := banned.ParseFile(bannedPath)
	if err != nil {
		return nil, nil, configError(err)
	}
	am, err := allowed.Load(allowedPath, opts)
	if err != nil {
		return nil, nil, configError(err)
	}
	return banned.NewMatcher(bspec), am, nil
}

type scanOutcome struct {
	occurrences []types.Occurrence
	cacheKey    string
	cacheVal    string
	cached      bool
	err         error
}

// Scan reports banned code points outside allowed spans for every discovered
// file. Per-file failures are counted in Stats.Errors and never abort the run.
func Scan(ctx context.Context, cfg ScanConfig) (Result, error) {
	log := zerolog.Ctx(ctx)
	result := Result{Stats: types.ScanStats{VaultPath: cfg.Root}}

	opts := pattern.Options{MatchTimeout: cfg.MatchTimeout}
	bm, am, err := loadMatchers(cfg.BannedPath, cfg.AllowedPath, opts)
	if err != nil {
		return result, err
	}
	files, err := Discover(cfg.Root, cfg.Extensions, cfg.Excludes)
	if err != nil {
		return result, err
	}
	log.Debug().Str("root", cfg.Root).Int("files", len(files)).Msg("discovered files")

	var (
		db          cache.DB
		cacheRoot   string
		fingerprint uint64
	)
	if cfg.Cache {
		cacheRoot = cacheRootFor(cfg.Root)
		db, _ = cache.Load(cacheRoot)
		fingerprint = scanFingerprint(cfg)
	}

	outcomes, err := runFiles(ctx, files, cfg.Threads, func(_ context.Context, path string) scanOutcome {
		var out scanOutcome
		data, err := os.ReadFile(path)
		if err != nil {
			out.err = errors.WithStack(err)
			return out
		}
		if cfg.Cache {
			out.cacheKey = cacheKey(cacheRoot, path)
			out.cacheVal = cache.Hash(fingerprint, data)
			if db.Entries[out.cacheKey] == out.cacheVal {
				out.cached = true
				return out
			}
		}
		out.occurrences, out.err = scanData(path, data, bm, am, cfg.IncludeNames)
		return out
	})
	if err != nil {
		return result, err
	}

	updated := false
	for i, o := range outcomes {
		result.Stats.FilesScanned++
		if o.err != nil {
			log.Debug().Str("path", files[i]).Err(o.err).Msg("scan failed")
			result.Stats.Errors++
			continue
		}
		if o.cached {
			result.Stats.Cached++
			continue
		}
		result.Occurrences = append(result.Occurrences, o.occurrences...)
		if cfg.Cache && len(o.occurrences) == 0 {
			db.Entries[o.cacheKey] = o.cacheVal
			updated = true
		}
	}
	result.Stats.Occurrences = len(result.Occurrences)

	if updated {
		if err := cache.Save(cacheRoot, db); err != nil {
			log.Warn().Err(err).Str("path", cache.Path(cacheRoot)).Msg("cache not saved")
		}
	}
	return result, nil
}

func scanData(path string, data []byte, bm *banned.Matcher, am *allowed.Matcher, includeNames bool) ([]types.Occurrence, error) {
	lines, err := decodeLines(data)
	if err != nil {
		return nil, err
	}
	var out []types.Occurrence
	for n, text := range lines {
		line := []rune(text)
		hits := bm.FindAll(line)
		if len(hits) == 0 {
			continue
		}
		allowedSpans, err := am.Spans(line)
		if err != nil {
			return nil, errors.Errorf("line %d: %w", n+1, err)
		}
		for _, i := range hits {
			if suppressed(i, allowedSpans) {
				continue
			}
			out = append(out, newOccurrence(path, n+1, i, line[i], includeNames))
		}
	}
	return out, nil
}

type substOutcome struct {
	changed      bool
	replacements int
	unmapped     int
	err          error
}

// Substitute rewrites banned characters in every discovered file using the
// substitution map. Changed files are written back as their lines joined by
// "\n" plus a trailing newline unless DryRun is set; counters are identical
// either way.
func Substitute(ctx context.Context, cfg SubstituteConfig) (types.SubstitutionStats, error) {
	log := zerolog.Ctx(ctx)
	stats := types.SubstitutionStats{DryRun: cfg.DryRun}

	opts := pattern.Options{MatchTimeout: cfg.MatchTimeout}
	bm, am, err := loadMatchers(cfg.BannedPath, cfg.AllowedPath, opts)
	if err != nil {
		return stats, err
	}
	m, err := subst.Load(cfg.MapPath)
	if err != nil {
		return stats, configError(err)
	}
	rw, err := subst.NewRewriter(bm, am, m, opts)
	if err != nil {
		return stats, configError(err)
	}
	files, err := Discover(cfg.Root, cfg.Extensions, cfg.Excludes)
	if err != nil {
		return stats, err
	}
	log.Debug().Str("root", cfg.Root).Int("files", len(files)).Bool("dry_run", cfg.DryRun).Msg("discovered files")

	outcomes, err := runFiles(ctx, files, cfg.Threads, func(_ context.Context, path string) substOutcome {
		return substituteFile(path, rw, cfg.DryRun)
	})
	if err != nil {
		return stats, err
	}

	for i, o := range outcomes {
		stats.FilesScanned++
		if o.err != nil {
			log.Debug().Str("path", files[i]).Err(o.err).Msg("substitution failed")
			stats.Errors++
			continue
		}
		stats.UnmappedBanned += o.unmapped
		if o.changed {
			stats.FilesChanged++
			stats.Replacements += o.replacements
		}
	}
	return stats, nil
}

func substituteFile(path string, rw *subst.Rewriter, dryRun bool) substOutcome {
	var out substOutcome
	data, err := os.ReadFile(path)
	if err != nil {
		out.err = errors.WithStack(err)
		return out
	}
	lines, err := decodeLines(data)
	if err != nil {
		out.err = err
		return out
	}
	rewritten := make([]string, len(lines))
	for n, text := range lines {
		res, err := rw.Line([]rune(text))
		if err != nil {
			out.err = errors.Errorf("line %d: %w", n+1, err)
			return out
		}
		rewritten[n] = res.Text
		out.replacements += res.Replacements
		out.unmapped += res.Unmapped
		if res.Changed {
			out.changed = true
		}
	}
	if out.changed && !dryRun {
		content := strings.Join(rewritten, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			out.err = errors.WithStack(err)
		}
	}
	return out
}

// runFiles calls fn for every file on a bounded pool and returns the results
// in input order. Only context cancellation fails the whole run.
func runFiles[T any](ctx context.Context, files []string, threads int, fn func(context.Context, string) T) ([]T, error) {
	out := make([]T, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(threads))
	for i, p := range files {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(gctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}

func workers(threads int) int {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	return threads
}

// decodeLines decodes UTF-8, replacing invalid bytes with U+FFFD, and splits
// on "\n". A "\r" directly before the newline is dropped. A trailing newline
// does not start another line.
func decodeLines(data []byte) ([]string, error) {
	b, err := xunicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	text := string(b)
	if text == "" {
		return nil, nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

func cacheRootFor(root string) string {
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

func cacheKey(cacheRoot, path string) string {
	rel, err := filepath.Rel(cacheRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func scanFingerprint(cfg ScanConfig) uint64 {
	bannedBytes, _ := os.ReadFile(cfg.BannedPath)
	var allowedBytes []byte
	if cfg.AllowedPath != "" {
		allowedBytes, _ = os.ReadFile(cfg.AllowedPath)
	}
	names := []byte{'0'}
	if cfg.IncludeNames {
		names[0] = '1'
	}
	return cache.Fingerprint(bannedBytes, allowedBytes, names)
}
