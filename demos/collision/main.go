// collision drops random boxes, polygons and circles into a walled arena and
// lets the collision world push them apart. Barrels (red boxes) are removed
// when a cannonball hits them. Press D to toggle the debug overlay.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/deltaengine/delta"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

const (
	screenW    = 1280
	screenH    = 720
	shapeCount = 80
	barrels    = 12
	gravity    = 0.12
	damping    = 0.98
	maxVel     = 12.0

	// Fraction of the response applied each step; the rest is left for the
	// other owner, which receives the negated response.
	pushShare = 0.5

	cannonEvery = 30 // ticks
	cannonSpeed = 9.0
)

type kind int

const (
	kindShape kind = iota
	kindBarrel
	kindCannonball
)

type body struct {
	entity *delta.Entity
	kind   kind
	vx, vy float64
	half   float64
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config")
	flag.Parse()

	cfg := delta.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = delta.LoadConfig(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	scene, err := delta.NewSceneFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := scene.Logger()

	bodies := make(map[*delta.Entity]*body)
	var tweens []*delta.TweenGroup

	spawn := func(name string, k kind, geom delta.Geometry, half, x, y float64) *body {
		e := delta.NewEntity(name)
		e.SetPosition(x, y)
		scene.Add(e)
		if err := e.RegisterBody(geom); err != nil {
			logger.Error("register body", zap.String("entity", name), zap.Error(err))
			return nil
		}
		b := &body{entity: e, kind: k, half: half}
		bodies[e] = b
		e.OnRemoved = func() { delete(bodies, e) }
		e.OnCollision = func(other *delta.Entity, response delta.Vec2) bool {
			ob := bodies[other]
			if b.kind == kindBarrel && ob != nil && ob.kind == kindCannonball {
				e.RemoveNextUpdate = true
				other.RemoveNextUpdate = true
				return true
			}
			if b.kind == kindBarrel {
				return false
			}
			e.X += response.X * pushShare
			e.Y += response.Y * pushShare
			if n, ok := response.Normalize(); ok {
				if vn := b.vx*n.X + b.vy*n.Y; vn < 0 {
					b.vx -= vn * n.X
					b.vy -= vn * n.Y
				}
			}
			return true
		}
		return b
	}

	for i := range shapeCount {
		size := 20 + rand.Float64()*20
		x := size + rand.Float64()*(screenW-2*size)
		y := size + rand.Float64()*(screenH/2-size)

		var b *body
		switch rand.IntN(3) {
		case 0:
			b = spawn("box", kindShape, delta.NewBox(size, size), size/2, x, y)
		case 1:
			b = spawn("polygon", kindShape, regularPolygon(3+i%4, size/2), size/2, x, y)
		default:
			b = spawn("circle", kindShape, delta.NewCircle(size/2), size/2, x, y)
		}
		if b != nil {
			b.vx = (rand.Float64() - 0.5) * 2
			tweens = append(tweens, delta.TweenRotation(b.entity, rand.Float64()*math.Pi, 2, ease.OutCubic))
		}
	}
	for i := range barrels {
		x := 80 + float64(i)*(screenW-160)/float64(barrels-1)
		spawn("barrel", kindBarrel, delta.NewBox(32, 48), 24, x, screenH-24)
	}

	tick := 0
	scene.SetUpdateFunc(func() error {
		tick++
		if inpututil.IsKeyJustPressed(ebiten.KeyD) {
			cfg.Debug = !cfg.Debug
			scene.SetDebugMode(cfg.Debug)
		}
		if tick%cannonEvery == 0 {
			b := spawn("cannonball", kindCannonball, delta.NewBox(8, 8), 4, rand.Float64()*screenW, 8)
			if b != nil {
				b.vy = cannonSpeed
			}
		}

		live := tweens[:0]
		for _, g := range tweens {
			g.Update(1.0 / float32(ebiten.TPS()))
			if !g.Done {
				live = append(live, g)
			}
		}
		tweens = live

		for _, b := range bodies {
			if b.kind == kindBarrel {
				continue
			}
			e := b.entity
			if b.kind == kindShape {
				b.vy += gravity
				b.vx *= damping
				b.vy *= damping
			}
			b.vx = clamp(b.vx, -maxVel, maxVel)
			b.vy = clamp(b.vy, -maxVel, maxVel)
			e.X += b.vx
			e.Y += b.vy

			if b.kind == kindCannonball && e.Y > screenH {
				e.RemoveNextUpdate = true
				continue
			}
			if e.X-b.half < 0 {
				e.X, b.vx = b.half, math.Abs(b.vx)
			} else if e.X+b.half > screenW {
				e.X, b.vx = screenW-b.half, -math.Abs(b.vx)
			}
			if e.Y+b.half > screenH {
				e.Y, b.vy = screenH-b.half, 0
			}
		}
		return nil
	})

	if err := delta.Run(scene, delta.RunConfig{
		Title:     "Delta - Collision",
		Width:     screenW,
		Height:    screenH,
		ShowStats: true,
	}); err != nil {
		log.Fatal(err)
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// regularPolygon creates a regular polygon with the given number of sides
// centered at (0,0) with the given radius.
func regularPolygon(sides int, radius float64) *delta.Polygon {
	points := make([]delta.Vec2, sides)
	for i := range points {
		angle := 2*math.Pi*float64(i)/float64(sides) - math.Pi/2
		points[i] = delta.Vec2{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
	return delta.NewPolygon(points...)
}
