// Package sniper provides a small, stable facade over emoji-sniper's internal
// engine for programs that want to scan or rewrite files without the CLI.
//
// Example:
//
//	res, err := sniper.Scan(ctx, sniper.ScanConfig{Root: "notes", BannedPath: "banned.txt"})
//	if err != nil { /* handle */ }
//	_ = sniper.MarshalReport(os.Stdout, sniper.NewReport(res))
package sniper
