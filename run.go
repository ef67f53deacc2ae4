package delta

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowStats prints FPS, TPS and the last step's collision counters in the
	// top-left corner.
	ShowStats bool
}

// Run opens a window and drives scene from the ebiten game loop until the
// window closes or an update returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowStats {
		ebitenutil.DebugPrint(screen, statsText(g.scene.collision.Stats(), ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

func statsText(st StepStats, fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nproxies: %d pairs: %d\ncollisions: %d",
		fps, tps, st.Proxies, st.Pairs, st.Collisions)
}
