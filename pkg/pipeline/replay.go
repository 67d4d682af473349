package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/script"
)

// Replay parses the script in opts and applies it to a fresh session.
// The canvas size comes from opts, then the script's [canvas] table, then
// the fallback size in opts.
func Replay(ctx context.Context, opts Options) (editor.Scene, *script.Result, error) {
	if err := opts.ValidateForReplay(); err != nil {
		return editor.Scene{}, nil, err
	}
	s, err := script.Parse(opts.ScriptData)
	if err != nil {
		return editor.Scene{}, nil, err
	}
	if opts.Width == 0 {
		opts.Width = s.Canvas.Width
	}
	if opts.Height == 0 {
		opts.Height = s.Canvas.Height
	}
	if opts.Width == 0 {
		opts.Width = opts.FallbackWidth
	}
	if opts.Height == 0 {
		opts.Height = opts.FallbackHeight
	}

	hooks := observability.Pipeline()
	hooks.OnReplayStart(ctx, opts.ScriptName, len(s.Steps))
	start := time.Now()

	sess := editor.New(opts.SessionOptions())
	res, err := s.Replay(ctx, sess)
	hooks.OnReplayComplete(ctx, opts.ScriptName, sess.Tiles().Len(), time.Since(start), err)
	if err != nil {
		return editor.Scene{}, res, err
	}
	opts.Logger.Debug("replayed script",
		"script", opts.ScriptName,
		"steps", res.Steps,
		"tiles", sess.Tiles().Len())
	return sess.Scene(), res, nil
}

// layoutFingerprint folds the layout constants into a short cache key part.
func layoutFingerprint(c layout.Config) string {
	return fmt.Sprintf("u%g:l%g:t%g:g%d:m%g", c.UnitWidth, c.LevelHeight, c.TopMargin, c.RootGapUnits, c.MinLeft)
}
