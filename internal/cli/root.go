package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Fiducial generates deterministic marker patterns",
		Long: `Fiducial generates square fiducial markers. Every key (by default an
atomic number 1..118) maps to one fixed pattern, so a marker can be
regenerated anywhere and always looks the same.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/fiducial/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.auditCommand())
	root.AddCommand(c.elementsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
