package delta

import "fmt"

// --- ID counter ---

// entityIDCounter is a plain counter; scenes are driven from one goroutine.
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// --- Entity ---

// Entity is a game object with a position, a rotation and at most one
// collision body. Its transform is pushed into the body's geometry at the
// start of every Scene step.
type Entity struct {
	// Identity
	ID   uint32
	Name string

	// Transform
	X, Y     float64
	Rotation float64

	// Metadata
	UserData any
	EntityID uint32

	// RemoveNextUpdate asks the scene to remove this entity after the
	// current step, once every collision of the step has been delivered.
	RemoveNextUpdate bool

	// OnCollision is called with the other entity and the response that
	// pushes this entity out of it. other is nil when the other owner is not
	// an Entity. Nil by default.
	OnCollision func(other *Entity, response Vec2) bool

	// OnRemoved is called after the scene unregistered the entity's body.
	OnRemoved func()

	body     *BroadphaseProxy
	scene    *Scene
	disposed bool
}

var _ Collider = (*Entity)(nil)

// NewEntity creates an entity with no body.
func NewEntity(name string) *Entity {
	return &Entity{ID: nextEntityID(), Name: name}
}

// Position returns the entity's position as a vector.
func (e *Entity) Position() Vec2 {
	return Vec2{e.X, e.Y}
}

// SetPosition sets X and Y.
func (e *Entity) SetPosition(x, y float64) {
	e.X = x
	e.Y = y
}

// SetRotation sets the rotation in radians.
func (e *Entity) SetRotation(r float64) {
	e.Rotation = r
}

// Scene returns the scene the entity belongs to, or nil.
func (e *Entity) Scene() *Scene {
	return e.scene
}

// Body returns the entity's collision proxy, or nil.
func (e *Entity) Body() *BroadphaseProxy {
	return e.body
}

// RegisterBody gives the entity a collision body, replacing any existing
// one. The entity must belong to a scene.
func (e *Entity) RegisterBody(geom Geometry) error {
	if e.disposed {
		return fmt.Errorf("%w: entity %q is disposed", ErrInvalidOperation, e.Name)
	}
	if e.scene == nil {
		return fmt.Errorf("%w: entity %q is not in a scene", ErrInvalidOperation, e.Name)
	}
	if isNilGeometry(geom) {
		return ErrNilGeometry
	}
	if e.body != nil {
		if err := e.RemoveBody(); err != nil {
			return err
		}
	}
	geom.SetPosition(e.Position())
	geom.SetRotation(e.Rotation)
	proxy, err := e.scene.collision.AddCollisionPolygon(e, geom)
	if err != nil {
		return err
	}
	e.body = proxy
	return nil
}

// RemoveBody unregisters the entity's collision body. No-op without one.
func (e *Entity) RemoveBody() error {
	if e.body == nil {
		return nil
	}
	var err error
	if e.scene != nil {
		err = e.scene.collision.RemoveProxy(e.body)
	}
	e.body = nil
	return err
}

// ColliderID returns the entity ID as an owner handle.
func (e *Entity) ColliderID() OwnerID {
	return OwnerID(e.ID)
}

// HandleCollision forwards a collision to OnCollision.
func (e *Entity) HandleCollision(other Collider, response Vec2) bool {
	if e.OnCollision == nil || e.disposed {
		return false
	}
	otherEntity, _ := other.(*Entity)
	return e.OnCollision(otherEntity, response)
}

// syncBody pushes the entity transform into its body's geometry. The
// geometry marks itself stale only when a value actually changed.
func (e *Entity) syncBody() {
	if e.body == nil {
		return
	}
	e.body.Geometry.SetPosition(e.Position())
	e.body.Geometry.SetRotation(e.Rotation)
}

// --- Disposal ---

// Dispose removes the entity from its scene, drops its body and marks it
// disposed.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	if e.scene != nil {
		e.scene.Remove(e)
	}
	e.disposed = true
	e.ID = 0
	e.UserData = nil
	e.OnCollision = nil
	e.OnRemoved = nil
}

// IsDisposed returns true if the entity has been disposed.
func (e *Entity) IsDisposed() bool {
	return e.disposed
}
