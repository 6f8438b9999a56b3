package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/marker"
)

// elementRow is one line of the key table.
type elementRow struct {
	elements.Element
	Period int    `json:"period"`
	Group  int    `json:"group"`
	Hash   string `json:"hash"`
}

func elementRows(list []elements.Element) []elementRow {
	rows := make([]elementRow, len(list))
	for i, e := range list {
		rows[i] = elementRow{
			Element: e,
			Period:  elements.Period(e.Number),
			Group:   elements.Group(e.Number),
			Hash:    marker.DeriveHash(e.Number).String(),
		}
	}
	return rows
}

func (c *CLI) elementsCommand() *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "elements",
		Short:   "List the key table",
		Aliases: []string{"ls"},
		Example: `  fiducial elements
  fiducial elements --category noble-gas
  fiducial elements --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := elements.All()
			if category != "" {
				cat, err := elements.ParseCategory(category)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidOption, err, "--category")
				}
				list = elements.InCategory(cat)
			}
			rows := elementRows(list)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprintln(out, elementsTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list one category, e.g. noble-gas")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var slugs []string
		for _, c := range elements.Categories() {
			slugs = append(slugs, c.Slug())
		}
		return slugs, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func elementsTable(rows []elementRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			strconv.Itoa(r.Number), r.Symbol, r.Name, r.Category.String(),
			strconv.Itoa(r.Period), strconv.Itoa(r.Group), r.Hash,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Sym", "Name", "Category", "Period", "Group", "Hash").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 6:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}
