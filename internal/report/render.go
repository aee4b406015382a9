package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/varalys/sniper/internal/types"
)

// NoResultsMessage is printed by the text renderer when nothing was found.
const NoResultsMessage = "No banned characters found."

type PrintOptions struct {
	// Color enables ANSI styling of summaries.
	Color bool
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// ColorEnabled reports whether w is a terminal and colour was not disabled.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// WriteText prints one line per occurrence as
// "file:line:col U+XXXX 'c' NAME", or NoResultsMessage.
func WriteText(w io.Writer, results []types.Occurrence) {
	if len(results) == 0 {
		fmt.Fprintln(w, NoResultsMessage)
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s:%d:%d %s '%s'", r.File, r.Line, r.Col, r.Codepoint, r.Char)
		if r.Name != nil && *r.Name != "" {
			fmt.Fprintf(w, " %s", *r.Name)
		}
		fmt.Fprintln(w)
	}
}

// WriteTable prints occurrences as a bordered table.
func WriteTable(w io.Writer, results []types.Occurrence) error {
	if len(results) == 0 {
		fmt.Fprintln(w, NoResultsMessage)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("FILE", "LINE", "COL", "CODEPOINT", "CHAR", "NAME")
	for _, r := range results {
		name := ""
		if r.Name != nil {
			name = *r.Name
		}
		row := []string{r.File, strconv.Itoa(r.Line), strconv.Itoa(r.Col), r.Codepoint, r.Char, name}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteFileList prints each file containing an occurrence once, sorted.
func WriteFileList(w io.Writer, results []types.Occurrence) {
	for _, f := range UniqueFiles(results) {
		fmt.Fprintln(w, f)
	}
}

// UniqueFiles returns the sorted set of files in results.
func UniqueFiles(results []types.Occurrence) []string {
	seen := map[string]bool{}
	var files []string
	for _, r := range results {
		if !seen[r.File] {
			seen[r.File] = true
			files = append(files, r.File)
		}
	}
	sort.Strings(files)
	return files
}

// WriteSummary prints "Files: N | Occurrences: M | Errors: E".
func WriteSummary(w io.Writer, stats types.ScanStats, opts PrintOptions) {
	occ := strconv.Itoa(stats.Occurrences)
	errs := strconv.Itoa(stats.Errors)
	if opts.Color {
		occ = countStyle(stats.Occurrences).Render(occ)
		errs = countStyle(stats.Errors).Render(errs)
	}
	fmt.Fprintf(w, "%s %d | %s %s | %s %s\n",
		label("Files:", opts), stats.FilesScanned,
		label("Occurrences:", opts), occ,
		label("Errors:", opts), errs)
}

// WriteSubstitutionSummary prints the one-line substitution report.
func WriteSubstitutionSummary(w io.Writer, stats types.SubstitutionStats, opts PrintOptions) {
	unmapped := strconv.Itoa(stats.UnmappedBanned)
	errs := strconv.Itoa(stats.Errors)
	if opts.Color {
		unmapped = countStyle(stats.UnmappedBanned).Render(unmapped)
		errs = countStyle(stats.Errors).Render(errs)
	}
	fmt.Fprintf(w, "%s %d | %s %d | %s %d | %s %s | %s %s\n",
		label("Files:", opts), stats.FilesScanned,
		label("Changed:", opts), stats.FilesChanged,
		label("Replacements:", opts), stats.Replacements,
		label("Unmapped banned:", opts), unmapped,
		label("Errors:", opts), errs)
}

func label(s string, opts PrintOptions) string {
	if !opts.Color {
		return s
	}
	return labelStyle.Render(s)
}

func countStyle(n int) lipgloss.Style {
	if n == 0 {
		return okStyle
	}
	return badStyle
}

// ShouldFail reports whether a scan must exit non-zero: only when failOnFind
// is set and something was found.
func ShouldFail(stats types.ScanStats, failOnFind bool) bool {
	return failOnFind && stats.Occurrences > 0
}
