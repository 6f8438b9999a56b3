package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/io"
	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

type generateOpts struct {
	markerFlags
	output    string
	dir       string
	timestamp bool
	grid      bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <key>",
		Short: "Generate one marker",
		Long: `Generate the marker for one key, given as a number or an element symbol.

The file is named like 026_Fe.png unless --output is given; "-o -" writes
to stdout. --grid prints the cell pattern instead of rendering it.`,
		Example: `  fiducial generate 26
  fiducial generate Fe --mode dense --code -o iron.png
  fiducial generate 118 --format svg --font go-mono
  fiducial generate 8 --grid --shape mixed`,
		Aliases:           []string{"gen"},
		ValidArgsFunction: completeKey,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "output directory when --output is not set")
	cmd.Flags().BoolVar(&opts.timestamp, "timestamp", false, "append the generation time to the filename")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "print the cell grid as text and exit")

	return cmd
}

// resolveKey parses a single key: a number or an element symbol.
func resolveKey(raw string, maxKey int) (int, error) {
	if strings.Contains(raw, ",") {
		return 0, errors.New(errors.ErrCodeInvalidKey, "expected one key, got %q", raw)
	}
	keys, err := pipeline.ParseKeys(raw, maxKey)
	if err != nil {
		return 0, err
	}
	if len(keys) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidKey, "%q names %d keys; use batch for several", raw, len(keys))
	}
	return keys[0], nil
}

func (c *CLI) runGenerate(cmd *cobra.Command, raw string, opts *generateOpts) error {
	ctx := cmd.Context()
	po := c.options(cmd, &opts.markerFlags)

	key, err := resolveKey(raw, po.MaxKey)
	if err != nil {
		return err
	}
	po.Key = key

	if opts.grid {
		if err := po.ValidateAndSetDefaults(); err != nil {
			return err
		}
		g, err := marker.Generate(key, po.MarkerOptions())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), g.String())
		return nil
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Generate(ctx, po)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(res.Data)
		return err
	}

	path := opts.output
	if path == "" {
		var ts time.Time
		if opts.timestamp {
			ts = time.Now()
		}
		path = filepath.Join(opts.dir, io.Filename(res.Key, res.Symbol, ts, res.Format))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Generated %s", describeResult(res))
	printFile(path)
	printStats(res)
	return nil
}

// describeResult names a result like "26 Fe (dense)".
func describeResult(res *pipeline.Result) string {
	name := fmt.Sprintf("%d", res.Key)
	if res.Symbol != "" {
		name += " " + StyleHighlight.Render(res.Symbol)
	}
	return name + StyleDim.Render(" ("+res.Grid.Mode.String()+")")
}
