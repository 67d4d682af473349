package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/cache"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/layout"
	"github.com/matzehuels/syntree/pkg/observability"
)

const nounPhrase = `
name = "noun phrase"

[[step]]
op = "drop"
kind = "phrase"
value = "NP"
x = 300
y = 100
as = "np"

[[step]]
op = "drop"
kind = "word"
value = "noun"
x = 300
y = 300
as = "n"

[[step]]
op = "pair"
a = "np"
b = "n"

[[step]]
op = "edit"
node = "n"
label = "dogs"
`

func quiet() *log.Logger { return log.New(io.Discard) }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"gif", false},
		{"pdf", false},
		{"dot", false},
		{"json", true},
		{"SVG", true}, // normalized by SetRenderDefaults, not here
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		scale   float64
		wantErr bool
	}{
		{1, false},
		{0.5, false},
		{MaxScale, false},
		{0, true},
		{-1, true},
		{MaxScale + 1, true},
	}
	for _, tt := range tests {
		if err := ValidateScale(tt.scale); (err != nil) != tt.wantErr {
			t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForReplay(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForReplay(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing script error = %v", err)
	}

	opts = Options{ScriptData: []byte(nounPhrase), Width: -1}
	if err := opts.ValidateForReplay(); err == nil {
		t.Error("negative width should fail")
	}

	opts = Options{ScriptData: []byte(nounPhrase), Layout: layout.Config{UnitWidth: -1}}
	if err := opts.ValidateForReplay(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad layout error = %v", err)
	}

	opts = Options{ScriptData: []byte(nounPhrase)}
	if err := opts.ValidateForReplay(); err != nil {
		t.Fatalf("valid options: %v", err)
	}
	if opts.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", opts.Layout)
	}
	if opts.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}

	formats := []string{" PNG", "png", "Gif"}
	opts = Options{Formats: formats}
	opts.SetRenderDefaults()
	if got := strings.Join(opts.Formats, ","); got != "png,gif" {
		t.Errorf("Formats = %s, want png,gif", got)
	}
	if formats[0] != " PNG" {
		t.Error("caller's slice must not be modified")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"bad format", Options{Formats: []string{"bmp"}}, true},
		{"bad scale", Options{Scale: 100}, true},
		{"nodelink svg", Options{NodeLink: true, Formats: []string{"svg", "dot"}}, false},
		{"nodelink gif", Options{NodeLink: true, Formats: []string{"gif"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForRender(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{ScriptData: []byte(nounPhrase), Formats: []string{"PNG"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	formats := strings.Join(opts.Formats, ",")
	scale := opts.Scale

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if strings.Join(opts.Formats, ",") != formats || opts.Scale != scale {
		t.Error("options changed on second call")
	}
}

func TestArtifactKeyOptsDiffer(t *testing.T) {
	k := cache.NewDefaultKeyer()
	a := Options{Scale: 1}
	b := Options{Scale: 2}
	c := Options{Scale: 1, NodeLink: true}
	ka := k.ArtifactKey("h", a.ArtifactKeyOpts("png"))
	kb := k.ArtifactKey("h", b.ArtifactKeyOpts("png"))
	kc := k.ArtifactKey("h", c.ArtifactKeyOpts("png"))
	if ka == kb || ka == kc {
		t.Error("render settings must change the artifact key")
	}

	d := Options{Layout: layout.DefaultConfig()}
	e := Options{Layout: layout.DefaultConfig()}
	e.Layout.LevelHeight = 200
	if k.SceneKey("h", d.SceneKeyOpts()) == k.SceneKey("h", e.SceneKeyOpts()) {
		t.Error("layout settings must change the scene key")
	}
}

func TestReplay(t *testing.T) {
	sc, res, err := Replay(context.Background(), Options{ScriptData: []byte(nounPhrase), Logger: quiet()})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if res.Steps != 4 {
		t.Errorf("Steps = %d, want 4", res.Steps)
	}
	if len(sc.Tiles) != 2 || len(sc.Lines) != 1 {
		t.Fatalf("scene has %d tiles and %d lines", len(sc.Tiles), len(sc.Lines))
	}
	n, _ := sc.Tile(res.Aliases["n"])
	if n.Label != "dogs" || n.Parent != res.Aliases["np"] {
		t.Errorf("noun tile = %+v", n)
	}
	if b := sc.Bounds; b.Left != 520 || b.Width != 160 || b.Height != 230 {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestReplayCanvasFromScript(t *testing.T) {
	data := []byte("[canvas]\nwidth = 900\nheight = 500\n" + nounPhrase)

	sc, _, err := Replay(context.Background(), Options{ScriptData: data, Logger: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Width != 900 || sc.Height != 500 {
		t.Errorf("canvas = %vx%v, want 900x500", sc.Width, sc.Height)
	}
	// A single tree centers on the narrower viewport.
	if sc.Bounds.Left != 370 {
		t.Errorf("Bounds.Left = %v, want 370", sc.Bounds.Left)
	}

	sc, _, err = Replay(context.Background(), Options{ScriptData: data, Width: 1000, Logger: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Width != 1000 || sc.Height != 500 {
		t.Errorf("canvas = %vx%v, want 1000x500", sc.Width, sc.Height)
	}

	sc, _, err = Replay(context.Background(), Options{
		ScriptData:     []byte(nounPhrase),
		FallbackWidth:  800,
		FallbackHeight: 400,
		Logger:         quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Width != 800 || sc.Height != 400 {
		t.Errorf("canvas = %vx%v, want the 800x400 fallback", sc.Width, sc.Height)
	}
}

func TestReplayInvalidScript(t *testing.T) {
	_, _, err := Replay(context.Background(), Options{ScriptData: []byte("[[step]]\nop = \"fly\""), Logger: quiet()})
	if !errors.Is(err, errors.ErrCodeInvalidScript) {
		t.Errorf("Replay() error = %v, want %s", err, errors.ErrCodeInvalidScript)
	}
}

func TestRender(t *testing.T) {
	sc, _, err := Replay(context.Background(), Options{ScriptData: []byte(nounPhrase), Logger: quiet()})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(sc, Options{Formats: []string{"svg", "png", "dot"}, Scale: 1, NativeRaster: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not SVG")
	}
	if !bytes.HasPrefix(artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not PNG")
	}
	if !bytes.Contains(artifacts["dot"], []byte(`"tile-0" -> "tile-1"`)) {
		t.Errorf("dot artifact missing edge:\n%s", artifacts["dot"])
	}

	nl, err := Render(sc, Options{Formats: []string{"dot"}, NodeLink: true})
	if err != nil {
		t.Fatalf("Render(nodelink) error = %v", err)
	}
	if !bytes.Contains(nl["dot"], []byte("digraph G")) {
		t.Error("nodelink dot artifact is not DOT")
	}

	if _, err := Render(sc, Options{Formats: []string{"tiff"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(tiff) error = %v", err)
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quiet())
	defer r.Close()

	opts := Options{
		ScriptData:   []byte(nounPhrase),
		ScriptName:   "np.toml",
		Formats:      []string{"svg", "png"},
		Scale:        1,
		NativeRaster: true,
	}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.ReplayHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.TileCount != 2 || first.Stats.LineCount != 1 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.SceneHash == "" || len(first.Artifacts) != 2 {
		t.Errorf("result missing hash or artifacts: %q %d", first.SceneHash, len(first.Artifacts))
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ReplayHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if second.SceneHash != first.SceneHash {
		t.Error("cached scene hashes differently")
	}
	if !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ReplayHit {
		t.Error("refresh should replay the script")
	}

	opts.Refresh = false
	opts.Formats = []string{"svg", "gif"}
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.ReplayHit || fourth.CacheInfo.RenderHit {
		t.Errorf("new format should only hit the scene: %+v", fourth.CacheInfo)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quiet())

	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("missing script should fail")
	}
	_, err := r.Execute(context.Background(), Options{ScriptData: []byte("[[step]]\nop = \"select\"\nnode = \"x\"")})
	if !errors.Is(err, errors.ErrCodeInvalidScript) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeInvalidScript)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnReplayStart(_ context.Context, _ string, steps int) {
	h.record("replay-start")
	if steps != 4 {
		h.record("bad-steps")
	}
}

func (h *recordingHooks) OnReplayComplete(_ context.Context, _ string, tiles int, _ time.Duration, err error) {
	if err == nil && tiles == 2 {
		h.record("replay-ok")
	}
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render")
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) { h.record("hit:" + keyType) }

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quiet())
	opts := Options{ScriptData: []byte(nounPhrase)}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := "replay-start,replay-ok,render,hit:scene,hit:artifact"
	if got := strings.Join(h.events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}
