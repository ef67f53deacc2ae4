package delta

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// StepStats holds per-step counters and timings. Always populated; logged
// only in debug mode.
type StepStats struct {
	Elapsed    float64 // seconds passed to Simulate
	Proxies    int     // registered proxies
	Moved      int     // proxies whose bounds were refreshed
	Pairs      int     // broadphase candidate pairs
	Tests      int     // narrow-phase tests run
	Collisions int     // colliding pairs
	Errors     int     // pairs or proxies skipped because of an error

	BroadphaseTime  time.Duration
	NarrowphaseTime time.Duration
	NotifyTime      time.Duration
}

// Total returns the sum of the phase timings.
func (s StepStats) Total() time.Duration {
	return s.BroadphaseTime + s.NarrowphaseTime + s.NotifyTime
}

// debugLog writes step stats at debug level.
func (w *CollisionWorld) debugLog(stats StepStats) {
	if !w.debug {
		return
	}
	w.logger.Debug("collision step",
		zap.Int("proxies", stats.Proxies),
		zap.Int("moved", stats.Moved),
		zap.Int("pairs", stats.Pairs),
		zap.Int("tests", stats.Tests),
		zap.Int("collisions", stats.Collisions),
		zap.Int("errors", stats.Errors),
		zap.Duration("broadphase", stats.BroadphaseTime),
		zap.Duration("narrowphase", stats.NarrowphaseTime),
		zap.Duration("notify", stats.NotifyTime),
		zap.Duration("total", stats.Total()))
}

// Debug overlay colors.
var (
	DebugShapeColor   = Color{0.3, 1, 0.4, 1}
	DebugContactColor = Color{1, 0.25, 0.2, 1}
	DebugAABBColor    = Color{0.4, 0.6, 1, 0.5}
	DebugNormalColor  = Color{1, 1, 0.2, 1}
)

const debugStrokeWidth = 1

// debugColor picks the outline color for a proxy: contact color if it
// collided during the last step.
func debugColor(p *BroadphaseProxy, touching map[uint32]struct{}) Color {
	if _, ok := touching[p.ID]; ok {
		return DebugContactColor
	}
	return DebugShapeColor
}

// DrawDebug draws every proxy's outline and AABB onto dst through the view
// matrix (use identity for screen space), plus the response vector of every
// contact from the last step.
func (w *CollisionWorld) DrawDebug(dst *ebiten.Image, view [6]float64) {
	touching := make(map[uint32]struct{}, len(w.contacts)*2)
	for _, c := range w.contacts {
		touching[c.A.ID] = struct{}{}
		touching[c.B.ID] = struct{}{}
	}

	for _, p := range w.proxies {
		drawAABB(dst, view, p.aabb, DebugAABBColor)
		clr := debugColor(p, touching).toRGBA()
		switch g := p.Geometry.(type) {
		case *Circle:
			cx, cy := transformPoint(view, g.position.X, g.position.Y)
			r := g.radius * math.Sqrt(math.Abs(view[0]*view[3]-view[1]*view[2]))
			vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r), debugStrokeWidth, clr, true)
		case Polygonal:
			verts := g.worldVertices()
			for i := range verts {
				a := transformVec(view, verts[i])
				b := transformVec(view, verts[(i+1)%len(verts)])
				vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), debugStrokeWidth, clr, true)
			}
		}
	}

	normal := DebugNormalColor.toRGBA()
	for _, c := range w.contacts {
		from := transformVec(view, c.A.Geometry.Position())
		to := transformVec(view, c.A.Geometry.Position().Add(c.Result.Response))
		vector.StrokeLine(dst, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), debugStrokeWidth, normal, true)
	}
}

func drawAABB(dst *ebiten.Image, view [6]float64, b AABB, clr Color) {
	if b.IsEmpty() {
		return
	}
	corners := [4]Vec2{b.Min, {b.Max.X, b.Min.Y}, b.Max, {b.Min.X, b.Max.Y}}
	c := clr.toRGBA()
	for i := range corners {
		p := transformVec(view, corners[i])
		q := transformVec(view, corners[(i+1)%4])
		vector.StrokeLine(dst, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), debugStrokeWidth, c, false)
	}
}
