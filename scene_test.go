package delta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	events []CollisionEvent
}

func (s *recordingStore) EmitCollision(e CollisionEvent) {
	s.events = append(s.events, e)
}

func newBarrel(t *testing.T, s *Scene, name string, x, y float64) *Entity {
	t.Helper()
	e := NewEntity(name)
	e.SetPosition(x, y)
	s.Add(e)
	require.NoError(t, e.RegisterBody(NewBox(16, 16)))
	return e
}

func TestSceneStepDeliversCollisions(t *testing.T) {
	s := NewScene()
	a := newBarrel(t, s, "a", 100, 100)
	b := newBarrel(t, s, "b", 108, 100)

	var gotA, gotB []*Entity
	var respA Vec2
	a.OnCollision = func(other *Entity, response Vec2) bool {
		gotA = append(gotA, other)
		respA = response
		return true
	}
	b.OnCollision = func(other *Entity, _ Vec2) bool {
		gotB = append(gotB, other)
		return true
	}

	s.Step(1.0 / 60)
	assert.Equal(t, []*Entity{b}, gotA)
	assert.Equal(t, []*Entity{a}, gotB)
	assertVecNear(t, Vec2{-8, 0}, respA)
}

func TestSceneRemoveNextUpdate(t *testing.T) {
	s := NewScene()
	a := newBarrel(t, s, "a", 0, 0)
	b := newBarrel(t, s, "b", 4, 0)
	c := newBarrel(t, s, "c", 500, 0)

	removed := 0
	for _, e := range []*Entity{a, b} {
		e.OnCollision = func(*Entity, Vec2) bool {
			e.RemoveNextUpdate = true
			return true
		}
		e.OnRemoved = func() { removed++ }
	}

	s.Step(0)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []*Entity{c}, s.Entities())
	assert.Nil(t, a.Scene())
	assert.Nil(t, a.Body())
	assert.Nil(t, s.EntityByID(a.ID))
	assert.Len(t, s.Collision().Proxies(), 1)
	assert.False(t, a.RemoveNextUpdate)
}

func TestSceneSyncsEntityTransform(t *testing.T) {
	s := NewScene()
	a := newBarrel(t, s, "a", 0, 0)
	b := newBarrel(t, s, "b", 100, 0)

	hits := 0
	a.OnCollision = func(*Entity, Vec2) bool { hits++; return true }

	s.Step(0)
	assert.Zero(t, hits)

	b.X = 10
	b.SetRotation(0.2)
	s.Step(0)
	assert.Equal(t, 1, hits)
	assert.Equal(t, Vec2{10, 0}, b.Body().Geometry.Position())
	assert.Equal(t, 0.2, b.Body().Geometry.Rotation())
}

func TestSceneEntityStore(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEntityStore(store)

	a := newBarrel(t, s, "a", 0, 0)
	a.EntityID = 11
	b := newBarrel(t, s, "b", 8, 0)
	b.EntityID = 22

	s.Step(0)
	require.Len(t, store.events, 1)
	ev := store.events[0]
	assert.Equal(t, uint32(11), ev.EntityA)
	assert.Equal(t, uint32(22), ev.EntityB)
	assert.InDelta(t, 8, ev.Penetration, epsilon)
	assertVecNear(t, Vec2{-8, 0}, ev.Response)
}

func TestSceneEntityStoreSurvivesRemovalInCallback(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEntityStore(store)

	a := newBarrel(t, s, "a", 0, 0)
	a.EntityID = 11
	b := newBarrel(t, s, "b", 8, 0)
	b.EntityID = 22

	a.OnCollision = func(*Entity, Vec2) bool {
		a.Dispose()
		return true
	}
	bHits := 0
	b.OnCollision = func(*Entity, Vec2) bool { bHits++; return true }

	s.Step(0)
	assert.Equal(t, 1, bHits)
	require.Len(t, store.events, 1)
	assert.Equal(t, uint32(11), store.events[0].EntityA)
	assert.Equal(t, uint32(22), store.events[0].EntityB)
	assert.Equal(t, []*Entity{b}, s.Entities())
}

func TestNewSceneWithDebugOption(t *testing.T) {
	s := NewScene(WithDebug(true))
	assert.True(t, s.debug)
	assert.True(t, s.collision.debug)

	s.SetDebugMode(false)
	assert.False(t, s.debug)
	assert.False(t, s.collision.debug)
}

func TestSceneUpdateRunsUpdateFunc(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TPS = 30
	cfg.LogLevel = "error"
	s, err := NewSceneFromConfig(cfg)
	require.NoError(t, err)

	calls := 0
	s.SetUpdateFunc(func() error { calls++; return nil })
	require.NoError(t, s.Update())
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 1.0/30, s.Collision().Stats().Elapsed, epsilon)

	boom := errors.New("boom")
	s.SetUpdateFunc(func() error { return boom })
	assert.ErrorIs(t, s.Update(), boom)
}

func TestNewSceneFromConfigRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellSize = 0
	_, err := NewSceneFromConfig(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSceneAddPanics(t *testing.T) {
	s := NewScene()
	assert.Panics(t, func() { s.Add(nil) })

	e := NewEntity("e")
	s.Add(e)
	assert.Panics(t, func() { s.Add(e) })
	assert.Panics(t, func() { NewScene().Remove(e) })

	d := NewEntity("d")
	d.Dispose()
	assert.Panics(t, func() { s.Add(d) })
}

func TestEntityRegisterBody(t *testing.T) {
	e := NewEntity("loose")
	assert.ErrorIs(t, e.RegisterBody(NewBox(1, 1)), ErrInvalidOperation, "not in a scene")

	s := NewScene()
	s.Add(e)
	assert.ErrorIs(t, e.RegisterBody(nil), ErrNilGeometry)

	require.NoError(t, e.RegisterBody(NewBox(1, 1)))
	first := e.Body()
	require.NoError(t, e.RegisterBody(NewCircle(2)))
	assert.NotSame(t, first, e.Body())
	assert.Len(t, s.Collision().Proxies(), 1)
	assert.Equal(t, ShapeCircle, e.Body().Geometry.Kind())

	require.NoError(t, e.RemoveBody())
	require.NoError(t, e.RemoveBody())
	assert.Empty(t, s.Collision().Proxies())
}

func TestEntityDispose(t *testing.T) {
	s := NewScene()
	e := newBarrel(t, s, "e", 0, 0)
	removed := false
	e.OnRemoved = func() { removed = true }

	e.Dispose()
	assert.True(t, e.IsDisposed())
	assert.True(t, removed)
	assert.Empty(t, s.Entities())
	assert.Empty(t, s.Collision().Proxies())
	assert.False(t, e.HandleCollision(NewEntity("x"), Vec2{}))

	e.Dispose()
}
