package cli

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/io"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

type batchOpts struct {
	markerFlags
	dir       string
	workers   int
	timestamp bool
}

func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOpts{workers: runtime.GOMAXPROCS(0)}

	cmd := &cobra.Command{
		Use:   "batch <keys>",
		Short: "Generate many markers into a directory",
		Long: `Generate markers for a key list and write them, with a manifest.json
recording each file's hash and checksum, into --dir.

Keys are comma-separated numbers, ranges, element symbols or category
slugs, or "all".`,
		Example: `  fiducial batch all --dir markers
  fiducial batch 1-10,Fe,noble-gas --mode dense --code
  fiducial batch lanthanide --format svg --timestamp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "markers", "output directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "parallel renders")
	cmd.Flags().BoolVar(&opts.timestamp, "timestamp", false, "append the run time to every filename")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, spec string, opts *batchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	po := c.options(cmd, &opts.markerFlags)

	keys, err := pipeline.ParseKeys(spec, po.MaxKey)
	if err != nil {
		return err
	}
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d markers...", len(keys)))
	spin.Start()

	var done, cached atomic.Int64
	results, err := runner.BatchFunc(ctx, keys, po, opts.workers, func(res *pipeline.Result) {
		n := done.Add(1)
		if res.Cached {
			cached.Add(1)
		}
		spin.SetMessage(fmt.Sprintf("Generating %d/%d...", n, len(keys)))
		logger.Debug("marker done", "key", res.Key, "cached", res.Cached)
	})
	if err != nil {
		spin.StopWithError("Batch failed")
		return err
	}
	spin.Stop()

	m, err := io.WriteMarkers(opts.dir, results, io.ExportOptions{
		Mode:      po.Mode,
		Shape:     po.Shape,
		Format:    po.Format,
		Timestamp: opts.timestamp,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d markers", len(results)))

	seen := make(map[string]bool, len(results))
	for _, res := range results {
		for _, w := range res.Warnings {
			if !seen[w] {
				seen[w] = true
				printWarning("%s", w)
			}
		}
	}

	printSuccess("Wrote %d markers to %s", len(m.Entries), opts.dir)
	printFile(filepath.Join(opts.dir, io.ManifestName))
	printDetail("run %s · %d cached · %d rendered", m.RunID, cached.Load(), int64(len(results))-cached.Load())
	printNextStep("Check the files later", "fiducial verify "+opts.dir)
	return nil
}
