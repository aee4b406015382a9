package sniper

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return errors.Errorf("unsupported shell: %s", args[0])
			}
		},
		Example: `
# Bash
emoji-sniper completion bash > /etc/bash_completion.d/emoji-sniper

# Zsh
emoji-sniper completion zsh > "${fpath[1]}/_emoji-sniper"

# Fish
emoji-sniper completion fish > ~/.config/fish/completions/emoji-sniper.fish`,
	}
}
