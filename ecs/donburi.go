package ecs

import (
	"github.com/deltaengine/delta"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CollisionEventType is the Donburi event type for delta collision events.
// Subscribe to this in your ECS systems to receive one event per contact.
var CollisionEventType = events.NewEventType[delta.CollisionEvent]()

var _ delta.EntityStore = (*donburiStore)(nil)

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Collision events are published to CollisionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) delta.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitCollision(event delta.CollisionEvent) {
	CollisionEventType.Publish(s.world, event)
}
