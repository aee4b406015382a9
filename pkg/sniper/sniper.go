package sniper

import (
	"context"

	"github.com/varalys/sniper/internal/engine"
	"github.com/varalys/sniper/internal/report"
	"github.com/varalys/sniper/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	ScanConfig        = engine.ScanConfig
	SubstituteConfig  = engine.SubstituteConfig
	Result            = engine.Result
	Occurrence        = types.Occurrence
	ScanStats         = types.ScanStats
	SubstitutionStats = types.SubstitutionStats
	// Report is the {stats, results} document written by the scan command.
	Report = report.Payload
)

var (
	ErrConfiguration = engine.ErrConfiguration
	ErrNotFound      = engine.ErrNotFound
	ErrInvalidPath   = engine.ErrInvalidPath
)

// Scan reports every banned character under cfg.Root.
func Scan(ctx context.Context, cfg ScanConfig) (Result, error) {
	return engine.Scan(ctx, cfg)
}

// Substitute rewrites files under cfg.Root through the substitution map.
func Substitute(ctx context.Context, cfg SubstituteConfig) (SubstitutionStats, error) {
	return engine.Substitute(ctx, cfg)
}

// Discover lists the files a run over root would process. A nil excludes
// applies the default exclude list.
func Discover(root string, exts, excludes []string) ([]string, error) {
	return engine.Discover(root, exts, excludes)
}

// NewReport pairs a scan result with its statistics.
func NewReport(res Result) Report {
	return report.NewPayload(res.Stats, res.Occurrences)
}
