package sniper

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/config"
	"github.com/varalys/sniper/internal/logging"
)

var (
	flagVerbose int
	flagLogFile string
	flagThreads int
	flagNoColor bool
	flagConfig  string

	version = "0.1.0"

	// logCloser releases the --log-file handle opened in PersistentPreRunE.
	logCloser io.Closer

	// Loaded in PersistentPreRunE for commands annotated with usesConfig.
	localCfg  config.FileConfig
	globalCfg config.FileConfig
)

const usesConfig = "uses-config"

// exitError carries a non-zero exit code out of a command without printing.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// newRootCmd builds the command tree. Flag registration resets every
// package-level flag variable to its default.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "emoji-sniper",
		Short:         "Find and replace banned characters in text files",
		Long:          "emoji-sniper scans Markdown vaults and text trees for banned characters such as emoji, reports every occurrence with its position, and rewrites files through a substitution map.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			localCfg, globalCfg = config.FileConfig{}, config.FileConfig{}
			if cmd.Annotations[usesConfig] != "" && len(args) > 0 {
				var err error
				localCfg, globalCfg, err = loadConfigs(args[0])
				if err != nil {
					return errors.Errorf("config: %w", err)
				}
			}
			flags := cmd.Flags()
			logger, closer, err := logging.New(cmd.ErrOrStderr(), logging.Options{
				Verbosity: flagVerbose,
				LogFile:   pickString(flags.Changed("log-file"), flagLogFile, localCfg.LogFile, globalCfg.LogFile),
				NoColor:   noColor(flags.Changed("no-color")),
			})
			logCloser = closer
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	root.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also append JSON log lines to this file")
	root.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file to use instead of the vault-local one")

	root.AddCommand(newScanCmd(), newSubstituteCmd(), newVersionCmd(), newConfigCmd(), newCompletionCmd(root))
	return root
}

func noColor(changed bool) bool {
	return pickBool(changed, flagNoColor, localCfg.NoColor, globalCfg.NoColor)
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logCloser = nil
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "error:", err)
	return 2
}

// Execute runs the emoji-sniper CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "emoji-sniper", version)
			return nil
		},
	}
}
