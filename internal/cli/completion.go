package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/render"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for syntree. Besides commands and flags,
the scripts complete gesture script files for render and the export
formats of --format.

To load completions:

Bash:
  $ source <(syntree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ syntree completion bash > /etc/bash_completion.d/syntree
  # macOS:
  $ syntree completion bash > $(brew --prefix)/etc/bash_completion.d/syntree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ syntree completion zsh > "${fpath[1]}/_syntree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ syntree completion fish | source

  # To load completions for each session, execute once:
  $ syntree completion fish > ~/.config/fish/completions/syntree.fish

PowerShell:
  PS> syntree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> syntree completion powershell > syntree.ps1
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
			}
			return nil
		},
	}

	return cmd
}

// completeScripts offers gesture scripts (*.toml) for the render argument.
func completeScripts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats offers export formats for --format. Earlier entries of a
// comma-separated list are kept and not offered again.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, used := "", map[string]bool{}
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			used[strings.TrimSpace(f)] = true
		}
	}
	var out []string
	for _, f := range render.Formats {
		if !used[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
