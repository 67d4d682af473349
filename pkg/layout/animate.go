package layout

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/syntree/pkg/canvas"
)

// DefaultAnimationDuration is how long a relayout takes to settle.
const DefaultAnimationDuration = 250 * time.Millisecond

// EaseOutCubic decelerates towards the target.
func EaseOutCubic(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return 1 - math.Pow(1-t, 3)
}

type track struct {
	from, to canvas.Point
	start    time.Time
}

// Animator interpolates tile positions towards layout targets.
// It is not safe for concurrent use.
type Animator struct {
	duration time.Duration
	ease     func(float64) float64
	tracks   map[string]*track
}

// NewAnimator creates an animator. A non-positive duration disables easing:
// the first Step after Retarget lands every tile on its target.
func NewAnimator(d time.Duration) *Animator {
	return &Animator{
		duration: d,
		ease:     EaseOutCubic,
		tracks:   make(map[string]*track),
	}
}

// Duration returns the configured duration.
func (a *Animator) Duration() time.Duration { return a.duration }

// Retarget starts a track for every id in to, beginning at from[id].
// An existing track for the same id is replaced; callers pass the tile's
// current on-canvas position as from, so a moving tile turns smoothly.
func (a *Animator) Retarget(now time.Time, from, to map[string]canvas.Point) {
	for id, target := range to {
		start, ok := from[id]
		if !ok {
			start = target
		}
		a.tracks[id] = &track{from: start, to: target, start: now}
	}
}

// Cancel drops the tracks of the given ids; the tiles stay where they are.
func (a *Animator) Cancel(ids ...string) {
	for _, id := range ids {
		delete(a.tracks, id)
	}
}

// Prune drops every track whose id is not in keep. Tiles that left the
// layout stop where they are.
func (a *Animator) Prune(keep map[string]canvas.Point) {
	for id := range a.tracks {
		if _, ok := keep[id]; !ok {
			delete(a.tracks, id)
		}
	}
}

// Active reports whether any track is still running.
func (a *Animator) Active() bool { return len(a.tracks) > 0 }

// Tracking reports whether id has a running track.
func (a *Animator) Tracking(id string) bool {
	_, ok := a.tracks[id]
	return ok
}

// Step returns the position of every tracked tile at now and retires
// tracks that have reached their target.
func (a *Animator) Step(now time.Time) map[string]canvas.Point {
	frame := make(map[string]canvas.Point, len(a.tracks))
	for _, id := range slices.Sorted(maps.Keys(a.tracks)) {
		tr := a.tracks[id]
		p := 1.0
		if a.duration > 0 {
			p = float64(now.Sub(tr.start)) / float64(a.duration)
		}
		if p >= 1 {
			frame[id] = tr.to
			delete(a.tracks, id)
			continue
		}
		k := a.ease(p)
		frame[id] = canvas.Point{
			X: tr.from.X + (tr.to.X-tr.from.X)*k,
			Y: tr.from.Y + (tr.to.Y-tr.from.Y)*k,
		}
	}
	return frame
}

// Finish returns the final target of every running track and clears them.
func (a *Animator) Finish() map[string]canvas.Point {
	frame := make(map[string]canvas.Point, len(a.tracks))
	for id, tr := range a.tracks {
		frame[id] = tr.to
	}
	clear(a.tracks)
	return frame
}
