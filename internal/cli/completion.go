package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for qswap.

To load completions:

Bash:
  $ source <(qswap completion bash)

  # Persist for every session:
  $ qswap completion bash > ~/.local/share/bash-completion/completions/qswap

Zsh:
  # compinit must be enabled in ~/.zshrc
  $ qswap completion zsh > "${fpath[1]}/_qswap"

Fish:
  $ qswap completion fish | source

  $ qswap completion fish > ~/.config/fish/completions/qswap.fish

PowerShell:
  PS> qswap completion powershell | Out-String | Invoke-Expression

  PS> qswap completion powershell > qswap.ps1  # then source it from $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], c.Out)
		},
	}

	return cmd
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
