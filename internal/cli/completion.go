package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/elements"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for fiducial.

  bash:       source <(fiducial completion bash)
  zsh:        fiducial completion zsh > "${fpath[1]}/_fiducial"
  fish:       fiducial completion fish | source
  powershell: fiducial completion powershell | Out-String | Invoke-Expression

Key arguments complete to element symbols and numbers.`,
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

// completeKey offers element symbols, with their number and name as the
// description, for the first positional argument.
func completeKey(_ *cobra.Command, args []string, prefix string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, e := range elements.All() {
		num := strconv.Itoa(e.Number)
		switch {
		case strings.HasPrefix(strings.ToLower(e.Symbol), strings.ToLower(prefix)):
			out = append(out, e.Symbol+"\t"+num+" "+e.Name)
		case prefix != "" && strings.HasPrefix(num, prefix):
			out = append(out, num+"\t"+e.Symbol+" "+e.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
