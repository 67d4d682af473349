package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/pipeline"
	"github.com/matzehuels/syntree/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string  // output file path (or base path for multiple outputs)
	formats       string  // comma-separated output formats
	scale         float64 // raster scale for png/gif
	width         float64 // canvas width, overrides the script
	height        float64 // canvas height, overrides the script
	fullCanvas    bool    // export the whole canvas instead of the tight bounds
	hideSelection bool    // draw a selected tile without its highlight
	interactive   bool    // add hover highlighting to SVG output
	nodeLink      bool    // draw the forest with Graphviz instead of tiles
	native        bool    // never shell out to rsvg-convert
	noCache       bool    // bypass the render cache
	refresh       bool    // replay even when the scene is cached
}

// renderCommand creates the render command, which replays a gesture script
// and writes the resulting diagram in one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <script.toml>",
		Short: "Replay a gesture script and export the diagram",
		Long: `Replay a gesture script and export the diagram.

A script is a TOML list of editor gestures (drop, pair, drag, edit, ...).
Replaying it rebuilds the tree exactly as the editor would, including
layout, and the result is written in each requested format.`,
		Example: `  syntree render tree.toml
  syntree render tree.toml -f svg,png -o out/tree
  syntree render tree.toml -f dot --nodelink`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScripts,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.formats = c.Config.Export.Format
			}
			if !cmd.Flags().Changed("scale") {
				opts.scale = c.Config.Export.Scale
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "raster scale for png and gif")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from script or config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from script or config)")
	cmd.Flags().BoolVar(&opts.fullCanvas, "full-canvas", false, "export the whole canvas instead of cropping to the tree")
	cmd.Flags().BoolVar(&opts.hideSelection, "hide-selection", false, "draw the selected tile without its highlight")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "add hover highlighting to SVG output")
	cmd.Flags().BoolVar(&opts.nodeLink, "nodelink", false, "draw a Graphviz node-link diagram instead of tiles")
	cmd.Flags().BoolVar(&opts.native, "native", false, "rasterize in-process instead of using rsvg-convert")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "replay the script even if the scene is cached")
	cobra.CheckErr(cmd.RegisterFlagCompletionFunc("format", completeFormats))

	return cmd
}

// pipelineOptions converts flags and config into pipeline options.
func (c *CLI) pipelineOptions(input string, data []byte, opts renderOpts) pipeline.Options {
	return pipeline.Options{
		ScriptData:     data,
		ScriptName:     filepath.Base(input),
		Width:          opts.width,
		Height:         opts.height,
		FallbackWidth:  c.Config.Canvas.Width,
		FallbackHeight: c.Config.Canvas.Height,
		Layout:         c.Config.LayoutConfig(),
		Refresh:        opts.refresh,
		Formats:        parseFormats(opts.formats),
		Scale:          opts.scale,
		FullCanvas:     opts.fullCanvas,
		HideSelection:  opts.hideSelection,
		Interactive:    opts.interactive,
		NodeLink:       opts.nodeLink,
		NativeRaster:   opts.native,
		Logger:         c.Logger,
	}
}

// runRender replays input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	data, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", input)
	}
	if err != nil {
		return err
	}

	popts := c.pipelineOptions(input, data, opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(popts.Formats, ", ")))

	printRenderStats(result.Stats, result.CacheInfo)
	for _, format := range popts.Formats {
		path := outputPath(opts.output, input, format, len(popts.Formats) > 1)
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// outputPath picks the file for one format. A single format writes to
// output as given; several formats treat output as a base path. Without
// output the script's name is used.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
