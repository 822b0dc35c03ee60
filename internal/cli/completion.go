package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for deckfit.

  bash:        source <(deckfit completion bash)
  zsh:         deckfit completion zsh > "${fpath[1]}/_deckfit"
  fish:        deckfit completion fish | source
  powershell:  deckfit completion powershell | Out-String | Invoke-Expression

Skin names complete from the built-ins plus the --skins file.`,
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
}

// completeSkins completes the --skin flag with registered skin names.
func (c *CLI) completeSkins(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	skins, err := c.skins()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, 0, len(skins.List()))
	for _, sk := range skins.List() {
		out = append(out, sk.Name+"\t"+sk.Description)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerSkinCompletion attaches completeSkins to cmd's --skin flag.
func (c *CLI) registerSkinCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("skin", c.completeSkins)
}
