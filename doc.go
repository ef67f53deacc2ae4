// Package delta is the collision core of a 2D game engine built on
// [Ebitengine].
//
// Delta detects overlaps between oriented boxes, convex polygons and
// circles using the Separating Axis Theorem, filters candidate pairs through
// a uniform-grid broadphase, and tells the owners of every colliding pair
// which way to move. It applies no impulses: the response vector is advisory
// data for the game layer.
//
// # Quick start
//
//	scene := delta.NewScene()
//
//	barrel := delta.NewEntity("barrel")
//	barrel.SetPosition(100, 100)
//	scene.Add(barrel)
//	_ = barrel.RegisterBody(delta.NewBox(16, 16))
//	barrel.OnCollision = func(other *delta.Entity, response delta.Vec2) bool {
//		barrel.RemoveNextUpdate = true
//		return true
//	}
//
//	scene.Step(1.0 / 60)
//
// Or let [Run] open a window and drive the scene from the game loop.
//
// # Step
//
// [CollisionWorld.Simulate] runs one step in four phases (see [StepState]):
// refresh the bounding boxes of shapes that moved and rebuild the
// [OverlappingPairCache]; test every candidate pair with the [Narrowphase];
// call [Collider.HandleCollision] on both owners of each colliding pair;
// return to idle.
//
// # Shapes
//
// The narrow phase implements box/box, polygon/polygon (boxes count as
// polygons) and circle/circle. Circle versus box or polygon always reports
// no collision. Shapes that only touch (zero penetration) do not collide.
//
// # ECS
//
// The [EntityStore] bridge publishes a [CollisionEvent] per
// contact; delta/ecs provides a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package delta
