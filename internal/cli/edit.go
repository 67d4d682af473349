package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/render/sink"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	output string  // base path for saved diagrams
	width  float64 // canvas width in canvas units
	height float64 // canvas height in canvas units
	still  bool    // apply layouts without easing
}

// editCommand creates the edit command, which opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		Long: `Open the interactive editor.

Pick a tile from the palette and drop it on the canvas. Select a tile with
space (or double-click), then select another to pair them: the higher tile
becomes the parent. Saved diagrams use the [export] settings of the config
file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, export := c.editorSession(opts)
			c.Logger.Debug("editor started", "session", sess.ID)
			return runEditor(sess, export, c.Logger)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for saved diagrams (default from config)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&opts.still, "no-animation", false, "apply layouts without easing")

	return cmd
}

// editorSession builds a session and export settings from config and flags.
func (c *CLI) editorSession(opts editOpts) (*editor.Session, exportSettings) {
	cfg := c.Config
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	if opts.width > 0 {
		w = opts.width
	}
	if opts.height > 0 {
		h = opts.height
	}
	anim := cfg.AnimationDuration()
	if opts.still {
		anim = 0
	}

	sess := editor.New(editor.Options{
		Width:         w,
		Height:        h,
		Layout:        cfg.LayoutConfig(),
		Animation:     anim,
		LineTolerance: cfg.Canvas.LineTolerance,
		Logger:        c.Logger,
	})

	base := cfg.Export.Output
	if opts.output != "" {
		base = basePath(opts.output, opts.output)
	}
	return sess, exportSettings{
		formats: exportFormats(cfg.Export.Format),
		base:    base,
		options: sink.Options{Scale: cfg.Export.Scale},
	}
}
