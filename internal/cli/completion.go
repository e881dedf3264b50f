package cli

import (
	"github.com/spf13/cobra"
)

// definitionExts are offered when completing a definition argument.
var definitionExts = []string{"toml", "yaml", "yml", "json"}

// completeDefinitions restricts file completion for the first argument to
// definition and scene files.
func completeDefinitions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return definitionExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format value.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return formatCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for drivetrain.

Definition arguments complete to .toml, .yaml, .yml and .json files, and
--format completes the output formats.

  bash:        source <(drivetrain completion bash)
  zsh:         drivetrain completion zsh > "${fpath[1]}/_drivetrain"
  fish:        drivetrain completion fish | source
  powershell:  drivetrain completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
