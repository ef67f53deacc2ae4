package delta

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 transform fields on an Entity
// simultaneously. Create one via TweenPosition or TweenRotation and call
// Update(dt) each frame before the scene steps; the entity's body picks up
// the new transform on the next step. If the target entity is disposed, the
// group stops immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64
	target *Entity
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target entity has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition creates a TweenGroup that moves entity.X and entity.Y to the
// given target coordinates over the specified duration using the easing
// function.
func TweenPosition(e *Entity, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.Y), float32(toY), duration, fn)
	g.fields[0] = &e.X
	g.fields[1] = &e.Y
	return g
}

// TweenRotation creates a TweenGroup that turns entity.Rotation to the target
// value over the specified duration using the easing function.
func TweenRotation(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.Rotation), float32(to), duration, fn)
	g.fields[0] = &e.Rotation
	return g
}

// TweenTransform creates a TweenGroup that moves and turns the entity at
// once.
func TweenTransform(e *Entity, toX, toY, toRotation float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e}
	g.tweens[0] = gween.New(float32(e.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.Y), float32(toY), duration, fn)
	g.tweens[2] = gween.New(float32(e.Rotation), float32(toRotation), duration, fn)
	g.fields[0] = &e.X
	g.fields[1] = &e.Y
	g.fields[2] = &e.Rotation
	return g
}
