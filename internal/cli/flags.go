package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// markerFlags are the generation flags shared by generate, batch and
// browse. Flags override the config file only when set explicitly.
type markerFlags struct {
	mode, shape, format string
	code, number        bool
	label, font         string
	size                int
	binary              bool
	maxKey              int
	refresh, noCache    bool
}

func (f *markerFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.mode, "mode", "m", pipeline.DefaultMode, "grid mode: simple (8x8) or dense (21x21)")
	fs.StringVarP(&f.shape, "shape", "s", pipeline.DefaultShape, "cell shapes: squares or mixed")
	fs.StringVarP(&f.format, "format", "f", pipeline.DefaultFormat, "output format: png or svg")
	fs.BoolVar(&f.code, "code", false, "draw the short code label")
	fs.BoolVar(&f.number, "number", true, "draw the key number label")
	fs.StringVar(&f.label, "label", "", "code label text (default: element symbol); implies --code")
	fs.StringVar(&f.font, "font", "", "label font: go-bold, go-regular, go-mono, a .ttf path or a system font")
	fs.IntVar(&f.size, "size", 0, "scale the PNG to this many pixels per side (0 keeps 480)")
	fs.BoolVar(&f.binary, "binary", false, "threshold the PNG to pure black and white")
	fs.IntVar(&f.maxKey, "max-key", 0, "largest accepted key (default from config, 118)")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached output and render again")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
}

// apply overlays explicitly set flags onto opts.
func (f *markerFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		opts.Mode = f.mode
	}
	if fs.Changed("shape") {
		opts.Shape = f.shape
	}
	if fs.Changed("format") {
		opts.Format = f.format
	}
	if fs.Changed("code") {
		opts.ShowCode = f.code
	}
	if fs.Changed("number") {
		opts.ShowNumber = f.number
	}
	if f.label != "" {
		opts.CodeText = f.label
		opts.ShowCode = true
	}
	if fs.Changed("font") {
		opts.Font = f.font
	}
	if fs.Changed("size") {
		opts.Size = f.size
	}
	if fs.Changed("binary") {
		opts.Binary = f.binary
	}
	if fs.Changed("max-key") {
		opts.MaxKey = f.maxKey
	}
	opts.Refresh = f.refresh
}

// options builds generation options from the config and the flags.
func (c *CLI) options(cmd *cobra.Command, f *markerFlags) pipeline.Options {
	opts := c.config().PipelineOptions()
	f.apply(cmd, &opts)
	opts.Logger = c.Logger
	return opts
}
