package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates a completion command for generating shell completion scripts
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
  $ source <(doc-forge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ doc-forge completion bash > /etc/bash_completion.d/doc-forge
  # macOS:
  $ doc-forge completion bash > $(brew --prefix)/etc/bash_completion.d/doc-forge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ doc-forge completion zsh > "${fpath[1]}/_doc-forge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ doc-forge completion fish | source

  # To load completions for each session, execute once:
  $ doc-forge completion fish > ~/.config/fish/completions/doc-forge.fish

PowerShell:
  PS> doc-forge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> doc-forge completion powershell > doc-forge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				// Unreachable: Args validation rejects anything else.
				return fmt.Errorf("unsupported shell type: %s", args[0])
			}
		},
	}

	// Completion must not trigger workspace detection or logging setup.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return nil
	}

	return cmd
}
