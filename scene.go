package delta

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, collision events are forwarded to the ECS.
type EntityStore interface {
	EmitCollision(event CollisionEvent)
}

// CollisionEvent carries one colliding pair for the ECS bridge.
type CollisionEvent struct {
	// EntityA and EntityB are the ECS ids (Entity.EntityID) of the two owners.
	EntityA uint32
	EntityB uint32
	// Response pushes A out of B.
	Response    Vec2
	Penetration float64
}

// Scene owns the entity list and the collision world, and drives one
// collision step per update.
type Scene struct {
	entities  []*Entity
	byID      map[uint32]*Entity
	removeBuf []*Entity

	collision *CollisionWorld
	store     EntityStore
	logger    *zap.Logger
	debug     bool
	tps       int

	updateFunc func() error
}

// NewScene creates an empty scene with a default collision world. Options
// are applied to the collision world.
func NewScene(opts ...WorldOption) *Scene {
	s := &Scene{
		byID:   make(map[uint32]*Entity),
		logger: zap.NewNop(),
	}
	s.collision = NewCollisionWorld(nil, nil, append([]WorldOption{WithLogger(s.logger)}, opts...)...)
	s.logger = s.collision.logger
	s.debug = s.collision.debug
	s.collision.SetContactListener(s.emitContact)
	return s
}

// NewSceneFromConfig builds a scene whose broadphase, logger and debug mode
// come from cfg.
func NewSceneFromConfig(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	s := &Scene{
		byID:   make(map[uint32]*Entity),
		logger: logger,
		debug:  cfg.Debug,
		tps:    cfg.TPS,
	}
	s.collision = NewCollisionWorld(
		NewNarrowphase(),
		NewUniformGridBroadphase(cfg.CellSize, cfg.MaxCellsPerProxy),
		WithLogger(logger),
		WithDebug(cfg.Debug),
	)
	s.collision.SetContactListener(s.emitContact)
	return s, nil
}

// Collision returns the scene's collision world.
func (s *Scene) Collision() *CollisionWorld {
	return s.collision
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger {
	return s.logger
}

// Add appends e to the scene.
// Panics if e is nil, disposed, or already belongs to a scene.
func (s *Scene) Add(e *Entity) {
	if e == nil {
		panic("delta: cannot add nil entity")
	}
	if e.disposed {
		panic(fmt.Sprintf("delta: Add on disposed entity %q", e.Name))
	}
	if e.scene != nil {
		panic("delta: entity already belongs to a scene")
	}
	e.scene = s
	s.entities = append(s.entities, e)
	s.byID[e.ID] = e
}

// Remove detaches e from the scene, unregisters its body and calls its
// OnRemoved hook. Panics if e does not belong to this scene.
func (s *Scene) Remove(e *Entity) {
	if e.scene != s {
		panic("delta: entity does not belong to this scene")
	}
	if err := e.RemoveBody(); err != nil {
		s.logger.Warn("remove body failed", zap.Uint32("entity", e.ID), zap.Error(err))
	}
	for i, c := range s.entities {
		if c == e {
			copy(s.entities[i:], s.entities[i+1:])
			s.entities[len(s.entities)-1] = nil
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
	delete(s.byID, e.ID)
	e.scene = nil
	e.RemoveNextUpdate = false
	if e.OnRemoved != nil {
		e.OnRemoved()
	}
}

// Entities returns the entity list. The returned slice MUST NOT be mutated.
func (s *Scene) Entities() []*Entity {
	return s.entities
}

// EntityByID returns the entity with the given ID, or nil.
func (s *Scene) EntityByID(id uint32) *Entity {
	return s.byID[id]
}

// SetUpdateFunc sets game logic run at the start of every Update, before the
// collision step.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, per-step stats
// are logged at debug level and Draw renders the collision overlay.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.collision.SetDebugMode(enabled)
}

// Update runs the update function, then advances one step of 1/TPS seconds.
func (s *Scene) Update() error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	tps := s.tps
	if tps <= 0 {
		tps = ebiten.TPS()
	}
	s.Step(1.0 / float64(tps))
	return nil
}

// Step pushes entity transforms into their bodies, simulates the collision
// world, then removes every entity flagged RemoveNextUpdate.
func (s *Scene) Step(dt float64) {
	for _, e := range s.entities {
		e.syncBody()
	}

	s.collision.Simulate(dt)

	s.removeBuf = s.removeBuf[:0]
	for _, e := range s.entities {
		if e.RemoveNextUpdate {
			s.removeBuf = append(s.removeBuf, e)
		}
	}
	for i, e := range s.removeBuf {
		if e.scene == s {
			s.Remove(e)
		}
		s.removeBuf[i] = nil
	}
}

// Draw renders the collision overlay in screen space when debug mode is on.
func (s *Scene) Draw(screen *ebiten.Image) {
	if !s.debug {
		return
	}
	s.collision.DrawDebug(screen, identityTransform)
}

// emitContact forwards a contact to the entity store. Owners come from the
// contact itself so that entities removed by their own callbacks are still
// reported.
func (s *Scene) emitContact(c Contact) {
	if s.store == nil {
		return
	}
	a, okA := c.OwnerA.(*Entity)
	b, okB := c.OwnerB.(*Entity)
	if !okA || !okB {
		return
	}
	s.store.EmitCollision(CollisionEvent{
		EntityA:     a.EntityID,
		EntityB:     b.EntityID,
		Response:    c.Result.Response,
		Penetration: c.Result.Penetration(),
	})
}
