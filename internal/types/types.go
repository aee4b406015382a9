package types

// UnnamedChar is reported for code points without an assigned Unicode name.
const UnnamedChar = "<unnamed>"

// Occurrence is one banned code point found at a 1-based line and column.
// Column counts code points, not bytes. Name is set only when names were
// requested.
type Occurrence struct {
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Col       int     `json:"col"`
	Char      string  `json:"char"`
	Codepoint string  `json:"codepoint"` // U+XXXX, at least four hex digits
	Name      *string `json:"name,omitempty"`
}

// ScanStats summarises a scan run.
type ScanStats struct {
	VaultPath    string `json:"vault_path"`
	FilesScanned int    `json:"files_scanned"`
	Errors       int    `json:"errors"`
	Occurrences  int    `json:"occurrences"`
	Cached       int    `json:"cached_files,omitempty"`
}

// SubstitutionStats summarises a substitution run. Replacements only counts
// edits in files that actually changed.
type SubstitutionStats struct {
	FilesScanned   int  `json:"files_scanned"`
	FilesChanged   int  `json:"files_changed"`
	Replacements   int  `json:"replacements"`
	UnmappedBanned int  `json:"unmapped_banned"`
	Errors         int  `json:"errors"`
	DryRun         bool `json:"dry_run"`
}
