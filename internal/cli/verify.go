package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/io"
)

func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dir>",
		Short: "Check a batch directory against its manifest",
		Long: `Re-hash every file listed in dir/manifest.json and report files that
are missing or were modified since the batch was written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, bad, err := io.Verify(args[0])
			if err != nil {
				return err
			}
			if len(bad) == 0 {
				printSuccess("%d files match manifest", len(m.Entries))
				printDetail("run %s · %s %s %s", m.RunID, m.Mode, m.Shape, m.Format)
				return nil
			}
			for _, b := range bad {
				printError("%s: %s", b.File, b.Reason)
			}
			return fmt.Errorf("%d of %d files failed verification", len(bad), len(m.Entries))
		},
	}
}
