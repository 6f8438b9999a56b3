package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

type auditOpts struct {
	modes  []string
	shapes []string
	maxKey int
}

func (c *CLI) auditCommand() *cobra.Command {
	opts := auditOpts{
		modes:  []string{marker.ModeSimple.String(), marker.ModeDense.String()},
		shapes: []string{marker.ShapeSquares.String(), marker.ShapeMixed.String()},
	}

	cmd := &cobra.Command{
		Use:   "audit [keys]",
		Short: "Check that every key produces a distinct pattern",
		Long: `Generate every key in each selected mode and shape and compare all pairs.

The command fails if two keys share a grid. The table also shows hash
collisions and the smallest and mean Hamming distance between grids.`,
		Example: `  fiducial audit
  fiducial audit 1-54 --mode dense`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := "all"
			if len(args) == 1 {
				spec = args[0]
			}
			return c.runAudit(cmd, spec, &opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.modes, "mode", "m", opts.modes, "modes to audit")
	cmd.Flags().StringSliceVarP(&opts.shapes, "shape", "s", opts.shapes, "shapes to audit")
	cmd.Flags().IntVar(&opts.maxKey, "max-key", 0, "largest accepted key (default from config)")

	return cmd
}

func (c *CLI) runAudit(cmd *cobra.Command, spec string, opts *auditOpts) error {
	maxKey := opts.maxKey
	if maxKey == 0 {
		maxKey = c.config().Marker.MaxKey
	}
	keys, err := pipeline.ParseKeys(spec, maxKey)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	var reports []marker.Report
	for _, ms := range opts.modes {
		mode, err := marker.ParseMode(ms)
		if err != nil {
			return err
		}
		for _, ss := range opts.shapes {
			shape, err := marker.ParseShape(ss)
			if err != nil {
				return err
			}
			rep, err := marker.Audit(keys, marker.Options{Mode: mode, Shape: shape, MaxKey: maxKey})
			if err != nil {
				return err
			}
			reports = append(reports, rep)
		}
	}
	prog.done(fmt.Sprintf("Audited %d keys in %d configurations", len(keys), len(reports)))

	fmt.Fprintln(cmd.OutOrStdout(), auditTable(reports))

	failed := 0
	for _, rep := range reports {
		if !rep.OK() {
			failed++
			printError("%s/%s: identical grids for %s", rep.Mode, rep.Shape, joinPairs(rep.Identical))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d configuration(s) produced identical markers", failed)
	}
	printSuccess("All %d keys are distinct", len(keys))
	return nil
}

func auditTable(reports []marker.Report) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(reports))
	for i, rep := range reports {
		closest := "-"
		if rep.Keys > 1 {
			closest = rep.Closest.String()
		}
		rows[i] = []string{
			rep.Mode.String(),
			rep.Shape.String(),
			strconv.Itoa(rep.Keys),
			strconv.Itoa(len(rep.Identical)),
			strconv.Itoa(len(rep.HashCollisions)),
			strconv.Itoa(rep.MinDistance),
			closest,
			fmt.Sprintf("%.1f", rep.MeanDistance),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mode", "Shape", "Keys", "Identical", "Hash coll.", "Min dist", "Closest", "Mean dist").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(reports) && !reports[row].OK() && col == 3 {
				return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func joinPairs(ps []marker.Pair) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return strings.Join(out, ", ")
}
