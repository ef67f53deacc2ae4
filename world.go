package delta

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Collider is implemented by the objects that own collision bodies.
type Collider interface {
	// ColliderID returns a handle that is unique among the owners registered
	// with one CollisionWorld.
	ColliderID() OwnerID
	// HandleCollision is called once per step for every body of this owner that
	// overlaps a body of other. response is the minimum translation vector
	// that pushes this owner's shape out of other's. The return value reports
	// whether the event was handled; it does not change physics state.
	HandleCollision(other Collider, response Vec2) bool
}

// Contact is a colliding pair found during the last step.
type Contact struct {
	A, B   *BroadphaseProxy
	Result CollisionResult
	// OwnerA and OwnerB are the owners resolved when the contact was
	// delivered. They stay valid even if a callback unregistered them.
	OwnerA, OwnerB Collider
}

// ContactListener receives every contact after both owners were notified.
type ContactListener func(c Contact)

type ownerEntry struct {
	collider Collider
	bodies   int
}

// CollisionWorld runs one collision step at a time: it refreshes proxy
// bounding boxes, asks the broadphase for candidate pairs, runs the narrow
// phase on each, and notifies both owners of every colliding pair. It applies
// no impulses; responses are advisory data for the game layer.
type CollisionWorld struct {
	narrowphase *Narrowphase
	broadphase  Broadphase

	proxies []*BroadphaseProxy
	owners  map[OwnerID]ownerEntry

	state    StepState
	contacts []Contact
	listener ContactListener

	logger *zap.Logger
	debug  bool
	stats  StepStats
}

// WorldOption configures a CollisionWorld.
type WorldOption func(*CollisionWorld)

// WithLogger sets the logger used for per-pair failures and debug stats.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *CollisionWorld) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebug enables per-step stats logging at debug level.
func WithDebug(enabled bool) WorldOption {
	return func(w *CollisionWorld) {
		w.debug = enabled
	}
}

// NewCollisionWorld creates a world. A nil narrowphase defaults to the SAT
// narrow phase and a nil broadphase to a uniform grid with default settings.
func NewCollisionWorld(narrowphase *Narrowphase, broadphase Broadphase, opts ...WorldOption) *CollisionWorld {
	if narrowphase == nil {
		narrowphase = NewNarrowphase()
	}
	if broadphase == nil {
		broadphase = NewUniformGridBroadphase(DefaultCellSize, DefaultMaxCellsPerProxy)
	}
	w := &CollisionWorld{
		narrowphase: narrowphase,
		broadphase:  broadphase,
		owners:      make(map[OwnerID]ownerEntry),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Broadphase returns the world's broadphase.
func (w *CollisionWorld) Broadphase() Broadphase {
	return w.broadphase
}

// Narrowphase returns the world's narrow phase.
func (w *CollisionWorld) Narrowphase() *Narrowphase {
	return w.narrowphase
}

// State returns the current step phase. Outside Simulate it is StateIdle.
func (w *CollisionWorld) State() StepState {
	return w.state
}

// SetDebugMode enables or disables per-step stats logging.
func (w *CollisionWorld) SetDebugMode(enabled bool) {
	w.debug = enabled
}

// SetContactListener sets a function called once per contact after both
// owners were notified. Pass nil to clear it.
func (w *CollisionWorld) SetContactListener(fn ContactListener) {
	w.listener = fn
}

// Proxies returns the registered proxies. The returned slice MUST NOT be
// mutated.
func (w *CollisionWorld) Proxies() []*BroadphaseProxy {
	return w.proxies
}

// CollisionPairs returns the broadphase pair cache from the last step. It is
// exposed for debugging and visualization only.
func (w *CollisionWorld) CollisionPairs() *OverlappingPairCache {
	return w.broadphase.CollisionPairs()
}

// Contacts returns the colliding pairs found during the last step. The
// returned slice MUST NOT be mutated and is only valid until the next step.
func (w *CollisionWorld) Contacts() []Contact {
	return w.contacts
}

// Stats returns counters and timings for the last step.
func (w *CollisionWorld) Stats() StepStats {
	return w.stats
}

// AddCollisionPolygon registers geom as a collidable body of owner and
// returns its proxy. Any Geometry variant is accepted.
func (w *CollisionWorld) AddCollisionPolygon(owner Collider, geom Geometry) (*BroadphaseProxy, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if isNilGeometry(geom) {
		return nil, ErrNilGeometry
	}
	id := owner.ColliderID()
	if e, ok := w.owners[id]; ok && e.collider != owner {
		return nil, fmt.Errorf("%w: owner id %d already in use", ErrInvalidOperation, id)
	}

	proxy := NewBroadphaseProxy(geom, id)
	if err := w.broadphase.SetProxyAABB(proxy, geom.AABB()); err != nil {
		return nil, fmt.Errorf("register body: %w", err)
	}
	proxy.markSynced()

	e := w.owners[id]
	e.collider = owner
	e.bodies++
	w.owners[id] = e
	w.proxies = append(w.proxies, proxy)
	return proxy, nil
}

// AddBoundingBox registers an oriented box of the given size for owner.
func (w *CollisionWorld) AddBoundingBox(owner Collider, width, height float64) (*BroadphaseProxy, error) {
	return w.AddCollisionPolygon(owner, NewBox(width, height))
}

// AddBoundingCircle registers a circle of the given radius for owner.
func (w *CollisionWorld) AddBoundingCircle(owner Collider, radius float64) (*BroadphaseProxy, error) {
	return w.AddCollisionPolygon(owner, NewCircle(radius))
}

// RemoveProxy unregisters proxy. Contacts already gathered in a running step
// are still delivered to owners that remain registered.
func (w *CollisionWorld) RemoveProxy(proxy *BroadphaseProxy) error {
	idx := -1
	for i, p := range w.proxies {
		if p == proxy {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrProxyNotRegistered
	}
	if err := w.broadphase.RemoveProxy(proxy); err != nil {
		return fmt.Errorf("remove body: %w", err)
	}

	copy(w.proxies[idx:], w.proxies[idx+1:])
	w.proxies[len(w.proxies)-1] = nil
	w.proxies = w.proxies[:len(w.proxies)-1]

	if e, ok := w.owners[proxy.Owner]; ok {
		e.bodies--
		if e.bodies <= 0 {
			delete(w.owners, proxy.Owner)
		} else {
			w.owners[proxy.Owner] = e
		}
	}
	return nil
}

// Simulate advances one collision step. elapsed is the frame time in
// seconds; it is recorded in the stats but does not affect detection.
// Calls made while a step is already running (e.g. from a callback) are
// ignored.
func (w *CollisionWorld) Simulate(elapsed float64) {
	if w.state != StateIdle {
		w.logger.Warn("simulate called during a running step", zap.Stringer("state", w.state))
		return
	}
	defer func() { w.state = StateIdle }()

	stats := StepStats{Elapsed: elapsed, Proxies: len(w.proxies)}
	t0 := time.Now()

	w.state = StateBuildingPairs
	w.syncProxies(&stats)
	w.broadphase.CalculateCollisionPairs()
	pairs := w.broadphase.CollisionPairs().Pairs()
	stats.Pairs = len(pairs)
	stats.BroadphaseTime = time.Since(t0)
	t0 = time.Now()

	w.state = StateNarrowPhase
	w.contacts = w.contacts[:0]
	for _, pair := range pairs {
		if pair.A.Owner == pair.B.Owner {
			continue
		}
		stats.Tests++
		result, err := w.narrowphase.Collide(pair.A.Geometry, pair.B.Geometry)
		if err != nil {
			stats.Errors++
			w.logger.Warn("narrow phase failed",
				zap.Uint32("proxy_a", pair.A.ID),
				zap.Uint32("proxy_b", pair.B.ID),
				zap.Error(err))
			continue
		}
		if result.IsColliding {
			w.contacts = append(w.contacts, Contact{A: pair.A, B: pair.B, Result: result})
		}
	}
	stats.Collisions = len(w.contacts)
	stats.NarrowphaseTime = time.Since(t0)
	t0 = time.Now()

	w.state = StateNotifying
	for i := range w.contacts {
		c := &w.contacts[i]
		a, okA := w.owners[c.A.Owner]
		b, okB := w.owners[c.B.Owner]
		if !okA || !okB {
			continue
		}
		c.OwnerA, c.OwnerB = a.collider, b.collider
		a.collider.HandleCollision(b.collider, c.Result.Response)
		b.collider.HandleCollision(a.collider, c.Result.Response.Neg())
		if w.listener != nil {
			w.listener(*c)
		}
	}
	stats.NotifyTime = time.Since(t0)

	w.stats = stats
	if w.debug {
		w.debugLog(stats)
	}
}

// syncProxies pushes fresh AABBs to the broadphase for every proxy whose
// geometry changed since the last step.
func (w *CollisionWorld) syncProxies(stats *StepStats) {
	for _, p := range w.proxies {
		if !p.needsSync() {
			continue
		}
		if err := w.broadphase.SetProxyAABB(p, p.Geometry.AABB()); err != nil {
			stats.Errors++
			w.logger.Warn("update proxy bounds failed", zap.Uint32("proxy", p.ID), zap.Error(err))
			continue
		}
		p.markSynced()
		stats.Moved++
	}
}
