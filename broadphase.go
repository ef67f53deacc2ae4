package delta

import (
	"fmt"
	"math"
)

// Broadphase filters the set of registered proxies down to the pairs whose
// bounding boxes could overlap, so the narrow phase does not run O(n²) tests.
type Broadphase interface {
	// CollisionPairs returns the pair cache built by the last call to
	// CalculateCollisionPairs.
	CollisionPairs() *OverlappingPairCache
	// CalculateCollisionPairs rebuilds the pair cache from the current AABBs.
	CalculateCollisionPairs()
	// SetProxyAABB registers proxy or updates its bounding box.
	SetProxyAABB(proxy *BroadphaseProxy, aabb AABB) error
	// RemoveProxy unregisters proxy and drops every pair that references it.
	RemoveProxy(proxy *BroadphaseProxy) error
}

// OwnerID is a non-owning handle to the object that owns a proxy. The
// collision world resolves it through its owner registry.
type OwnerID uint32

// proxyIDCounter is a plain counter; scenes are driven from one goroutine.
var proxyIDCounter uint32

func nextProxyID() uint32 {
	proxyIDCounter++
	return proxyIDCounter
}

// BroadphaseProxy is the broadphase's handle for one collidable shape. The
// same proxy persists for as long as its owner keeps the body.
type BroadphaseProxy struct {
	ID       uint32
	Geometry Geometry
	Owner    OwnerID

	aabb AABB

	// Revision of Geometry when aabb was last computed.
	syncedRev uint64
	synced    bool

	// Grid bookkeeping.
	inGrid    bool
	oversized bool
	cellMin   cellCoord
	cellMax   cellCoord
}

// NewBroadphaseProxy creates a proxy for geom owned by owner. The proxy is
// not registered with any broadphase until SetProxyAABB is called.
func NewBroadphaseProxy(geom Geometry, owner OwnerID) *BroadphaseProxy {
	return &BroadphaseProxy{
		ID:       nextProxyID(),
		Geometry: geom,
		Owner:    owner,
	}
}

// AABB returns the bounding box last given to the broadphase.
func (p *BroadphaseProxy) AABB() AABB {
	return p.aabb
}

// needsSync reports whether the geometry changed since the AABB was computed.
func (p *BroadphaseProxy) needsSync() bool {
	return !p.synced || p.Geometry.revision() != p.syncedRev
}

func (p *BroadphaseProxy) markSynced() {
	p.synced = true
	p.syncedRev = p.Geometry.revision()
}

// --- Uniform grid ---

type cellCoord struct {
	X, Y int32
}

// Cell coordinates beyond this magnitude are treated as oversized so that
// conversions to int32 never overflow.
const maxCellCoord = 1 << 30

const (
	// DefaultCellSize is the grid cell edge length used when none is given.
	DefaultCellSize = 64.0
	// DefaultMaxCellsPerProxy caps how many cells one proxy may occupy before
	// it moves to the overflow list.
	DefaultMaxCellsPerProxy = 256
)

// UniformGridBroadphase buckets proxies into square cells. A proxy occupies
// every cell its AABB spans; two proxies become a candidate pair when they
// share a cell and their AABBs overlap. Proxies that would span more than
// MaxCellsPerProxy cells are kept in an overflow list and tested against
// every other proxy.
type UniformGridBroadphase struct {
	cellSize         float64
	invCellSize      float64
	maxCellsPerProxy int

	cells      map[cellCoord][]*BroadphaseProxy
	proxies    []*BroadphaseProxy // registration order
	registered map[uint32]int     // proxy ID -> index in proxies
	oversized  []*BroadphaseProxy
	pairs      *OverlappingPairCache
}

var _ Broadphase = (*UniformGridBroadphase)(nil)

// NewUniformGridBroadphase creates a grid with the given cell size.
// Non-positive arguments fall back to DefaultCellSize and
// DefaultMaxCellsPerProxy.
func NewUniformGridBroadphase(cellSize float64, maxCellsPerProxy int) *UniformGridBroadphase {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	if maxCellsPerProxy <= 0 {
		maxCellsPerProxy = DefaultMaxCellsPerProxy
	}
	return &UniformGridBroadphase{
		cellSize:         cellSize,
		invCellSize:      1 / cellSize,
		maxCellsPerProxy: maxCellsPerProxy,
		cells:            make(map[cellCoord][]*BroadphaseProxy),
		registered:       make(map[uint32]int),
		pairs:            NewOverlappingPairCache(),
	}
}

// CellSize returns the grid cell edge length.
func (g *UniformGridBroadphase) CellSize() float64 {
	return g.cellSize
}

// CollisionPairs returns the pair cache from the last rebuild.
func (g *UniformGridBroadphase) CollisionPairs() *OverlappingPairCache {
	return g.pairs
}

// Proxies returns the registered proxies in registration order. The returned
// slice MUST NOT be mutated.
func (g *UniformGridBroadphase) Proxies() []*BroadphaseProxy {
	return g.proxies
}

// Contains reports whether proxy is registered.
func (g *UniformGridBroadphase) Contains(proxy *BroadphaseProxy) bool {
	if proxy == nil {
		return false
	}
	i, ok := g.registered[proxy.ID]
	return ok && g.proxies[i] == proxy
}

// NumOccupiedCells returns how many grid cells currently hold a proxy.
func (g *UniformGridBroadphase) NumOccupiedCells() int {
	return len(g.cells)
}

// SetProxyAABB registers proxy if needed and moves it to the cells covered
// by aabb. Inverted or zero-area boxes are accepted; such a proxy occupies
// no cells and never pairs.
func (g *UniformGridBroadphase) SetProxyAABB(proxy *BroadphaseProxy, aabb AABB) error {
	if proxy == nil {
		return fmt.Errorf("%w: nil proxy", ErrInvalidOperation)
	}
	if i, ok := g.registered[proxy.ID]; ok && g.proxies[i] != proxy {
		return fmt.Errorf("%w: duplicate proxy id %d", ErrInvalidOperation, proxy.ID)
	}
	if !g.Contains(proxy) {
		g.registered[proxy.ID] = len(g.proxies)
		g.proxies = append(g.proxies, proxy)
		proxy.inGrid = false
		proxy.oversized = false
	}
	proxy.aabb = aabb

	inGrid, oversized, lo, hi := g.cellRange(aabb)
	if inGrid == proxy.inGrid && oversized == proxy.oversized && lo == proxy.cellMin && hi == proxy.cellMax {
		return nil
	}
	g.unlink(proxy)
	proxy.inGrid, proxy.oversized = inGrid, oversized
	proxy.cellMin, proxy.cellMax = lo, hi
	g.link(proxy)
	return nil
}

// RemoveProxy unregisters proxy. Pairs that reference it are dropped from the
// current cache and will not be produced by later rebuilds.
func (g *UniformGridBroadphase) RemoveProxy(proxy *BroadphaseProxy) error {
	if !g.Contains(proxy) {
		if proxy == nil {
			return fmt.Errorf("%w: nil proxy", ErrProxyNotRegistered)
		}
		return fmt.Errorf("%w: id %d", ErrProxyNotRegistered, proxy.ID)
	}
	g.unlink(proxy)
	proxy.inGrid = false
	proxy.oversized = false

	i := g.registered[proxy.ID]
	copy(g.proxies[i:], g.proxies[i+1:])
	g.proxies[len(g.proxies)-1] = nil
	g.proxies = g.proxies[:len(g.proxies)-1]
	delete(g.registered, proxy.ID)
	for j := i; j < len(g.proxies); j++ {
		g.registered[g.proxies[j].ID] = j
	}

	g.pairs.removeProxy(proxy)
	return nil
}

// CalculateCollisionPairs rebuilds the pair cache. Each pair whose AABBs
// overlap is found from the proxy with the lower ID, so every pair is
// considered once per shared cell and stored once.
func (g *UniformGridBroadphase) CalculateCollisionPairs() {
	g.pairs.Clear()

	for _, p := range g.proxies {
		if p.oversized {
			for _, q := range g.proxies {
				if q != p && p.aabb.Overlaps(q.aabb) {
					g.pairs.Add(p, q)
				}
			}
			continue
		}
		if !p.inGrid {
			continue
		}
		for y := p.cellMin.Y; y <= p.cellMax.Y; y++ {
			for x := p.cellMin.X; x <= p.cellMax.X; x++ {
				for _, q := range g.cells[cellCoord{x, y}] {
					if q.ID <= p.ID {
						continue
					}
					if p.aabb.Overlaps(q.aabb) {
						g.pairs.Add(p, q)
					}
				}
			}
		}
	}
}

// Query calls fn for each registered proxy whose AABB overlaps area. If fn
// returns true, iteration stops early.
func (g *UniformGridBroadphase) Query(area AABB, fn func(*BroadphaseProxy) bool) {
	inGrid, oversized, lo, hi := g.cellRange(area)
	if !inGrid {
		return
	}
	if oversized {
		for _, p := range g.proxies {
			if p.aabb.Overlaps(area) && fn(p) {
				return
			}
		}
		return
	}

	seen := make(map[uint32]struct{})
	for _, p := range g.oversized {
		if p.aabb.Overlaps(area) {
			seen[p.ID] = struct{}{}
			if fn(p) {
				return
			}
		}
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			for _, p := range g.cells[cellCoord{x, y}] {
				if _, dup := seen[p.ID]; dup || !p.aabb.Overlaps(area) {
					continue
				}
				seen[p.ID] = struct{}{}
				if fn(p) {
					return
				}
			}
		}
	}
}

// cellRange returns the inclusive cell range covered by aabb.
func (g *UniformGridBroadphase) cellRange(aabb AABB) (inGrid, oversized bool, lo, hi cellCoord) {
	if aabb.IsEmpty() {
		return false, false, cellCoord{}, cellCoord{}
	}
	x0 := math.Floor(aabb.Min.X * g.invCellSize)
	y0 := math.Floor(aabb.Min.Y * g.invCellSize)
	x1 := math.Floor(aabb.Max.X * g.invCellSize)
	y1 := math.Floor(aabb.Max.Y * g.invCellSize)

	if !inCellBounds(x0) || !inCellBounds(y0) || !inCellBounds(x1) || !inCellBounds(y1) {
		return true, true, cellCoord{}, cellCoord{}
	}
	if (x1-x0+1)*(y1-y0+1) > float64(g.maxCellsPerProxy) {
		return true, true, cellCoord{}, cellCoord{}
	}
	return true, false, cellCoord{int32(x0), int32(y0)}, cellCoord{int32(x1), int32(y1)}
}

func inCellBounds(v float64) bool {
	return v >= -maxCellCoord && v <= maxCellCoord
}

// link inserts proxy into the cells (or overflow list) recorded on it.
func (g *UniformGridBroadphase) link(p *BroadphaseProxy) {
	if !p.inGrid {
		return
	}
	if p.oversized {
		g.oversized = append(g.oversized, p)
		return
	}
	for y := p.cellMin.Y; y <= p.cellMax.Y; y++ {
		for x := p.cellMin.X; x <= p.cellMax.X; x++ {
			c := cellCoord{x, y}
			g.cells[c] = append(g.cells[c], p)
		}
	}
}

// unlink removes proxy from the cells (or overflow list) recorded on it.
func (g *UniformGridBroadphase) unlink(p *BroadphaseProxy) {
	if !p.inGrid {
		return
	}
	if p.oversized {
		g.oversized = removeProxyPtr(g.oversized, p)
		return
	}
	for y := p.cellMin.Y; y <= p.cellMax.Y; y++ {
		for x := p.cellMin.X; x <= p.cellMax.X; x++ {
			c := cellCoord{x, y}
			bucket := removeProxyPtr(g.cells[c], p)
			if len(bucket) == 0 {
				delete(g.cells, c)
				continue
			}
			g.cells[c] = bucket
		}
	}
}

// removeProxyPtr removes p from s preserving order. Uses copy+nil to avoid
// retaining a dangling pointer in the backing array.
func removeProxyPtr(s []*BroadphaseProxy, p *BroadphaseProxy) []*BroadphaseProxy {
	for i, q := range s {
		if q == p {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}
