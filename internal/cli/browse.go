package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/io"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

func (c *CLI) browseCommand() *cobra.Command {
	var flags markerFlags
	var dir, category string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a key interactively and generate its marker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po := c.options(cmd, &flags)
			if err := po.ValidateAndSetDefaults(); err != nil {
				return err
			}
			mo := po.MarkerOptions()

			list := elements.All()
			if category != "" {
				cat, err := elements.ParseCategory(category)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidOption, err, "--category")
				}
				list = elements.InCategory(cat)
			}

			final, err := tea.NewProgram(NewElementListModel(list, mo.Mode, mo.Shape),
				tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			m, ok := final.(ElementListModel)
			if !ok || m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			return c.generateSelection(cmd, po, m.Selected, dir, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVar(&category, "category", "", "only list one category")

	return cmd
}

func (c *CLI) generateSelection(cmd *cobra.Command, po pipeline.Options, sel *ElementSelection, dir string, noCache bool) error {
	ctx := cmd.Context()
	po.Key = sel.Element.Number
	po.Mode = sel.Mode.String()
	po.Shape = sel.Shape.String()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Generate(ctx, po)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, io.Filename(res.Key, res.Symbol, time.Time{}, res.Format))
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Generated %s", describeResult(res))
	printFile(path)
	printStats(res)
	return nil
}
