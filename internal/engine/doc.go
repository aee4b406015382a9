// Package engine contains the run-level logic for emoji-sniper. It discovers
// target files, scans them for banned code points or rewrites them through a
// substitution map, and aggregates per-file outcomes into stats. Files are
// processed on a bounded worker pool; results are always reported in
// discovery order. This package is internal; external consumers should use
// the facade in pkg/sniper.
package engine
