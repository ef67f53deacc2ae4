package delta

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugColorMarksContacts(t *testing.T) {
	p := newTestProxy()
	assert.Equal(t, DebugShapeColor, debugColor(p, nil))
	assert.Equal(t, DebugContactColor, debugColor(p, map[uint32]struct{}{p.ID: {}}))
}

func TestStepStatsTotal(t *testing.T) {
	st := StepStats{BroadphaseTime: 3, NarrowphaseTime: 4, NotifyTime: 5}
	assert.EqualValues(t, 12, st.Total())
}

func TestStatsText(t *testing.T) {
	text := statsText(StepStats{Proxies: 12, Pairs: 4, Collisions: 2}, 60, 59.5)
	assert.True(t, strings.HasPrefix(text, "FPS: 60.0\nTPS: 59.5\n"))
	assert.Contains(t, text, "proxies: 12 pairs: 4")
	assert.Contains(t, text, "collisions: 2")
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 2, A: 0.5}.toRGBA()
	assert.Equal(t, uint8(127), c.R)
	assert.Equal(t, uint8(63), c.G)
	assert.Equal(t, uint8(127), c.B, "clamped")
	assert.Equal(t, uint8(127), c.A)
}

func TestDrawDebugDoesNotPanic(t *testing.T) {
	w := NewCollisionWorld(nil, nil)
	a := &recorder{id: 1}
	b := &recorder{id: 2}
	addBoxBody(t, w, a, 10, 10)
	addBoxBody(t, w, b, 10.5, 10)
	pc, err := w.AddBoundingCircle(&recorder{id: 3}, 4)
	require.NoError(t, err)
	pc.Geometry.SetPosition(Vec2{30, 30})
	w.Simulate(0)
	require.Len(t, w.Contacts(), 1)

	dst := ebiten.NewImage(64, 64)
	assert.NotPanics(t, func() {
		w.DrawDebug(dst, identityTransform)
		w.DrawDebug(dst, multiplyAffine(translationTransform(5, 5), rotationTransform(0.3)))
	})
}

func TestRunRejectsBadWindowSize(t *testing.T) {
	err := Run(NewScene(), RunConfig{Width: 0, Height: 100})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
