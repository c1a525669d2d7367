package photon

import (
	"slices"
	"sync"

	"github.com/df07/go-photon-vcm/pkg/core"
)

// Index is a spatial index over photons for radius queries
type Index interface {
	Insert(p Photon)
	QueryNeighbors(point core.Vec3, radius float64) []Photon
}

// SplitRule picks the partition axis (0=X, 1=Y, 2=Z) for a subtree
type SplitRule func(depth int, bounds core.AABB) int

// CycleAxes splits on x, y, z in turn by tree depth
func CycleAxes(depth int, _ core.AABB) int {
	return depth % 3
}

// LongestAxis splits on the longest extent of the subtree's bounds
func LongestAxis(_ int, bounds core.AABB) int {
	return bounds.LongestAxis()
}

// KDTree is a photon map stored as an implicit balanced k-d tree.
// The median of every range [lo, hi) is its node; the left half holds photons whose
// split coordinate is <= the node's and the right half >= it.
//
// Insert is safe for concurrent producers. The tree is (re)built lazily on the first
// query after an insert, or explicitly with Build.
type KDTree struct {
	mu      sync.RWMutex
	photons []Photon
	axes    []int8 // split axis of the node stored at the same index
	bounds  core.AABB
	split   SplitRule
	dirty   bool
}

// NewKDTree creates an empty photon map that cycles split axes by depth
func NewKDTree() *KDTree {
	return NewKDTreeWithSplit(CycleAxes)
}

// NewKDTreeWithSplit creates an empty photon map with a custom split rule
func NewKDTreeWithSplit(split SplitRule) *KDTree {
	if split == nil {
		split = CycleAxes
	}
	return &KDTree{split: split}
}

// Insert stores a copy of p (see Photon.Copy)
func (t *KDTree) Insert(p Photon) {
	t.mu.Lock()
	t.insertLocked(p)
	t.mu.Unlock()
}

// InsertAll stores copies of a batch of photons under a single lock
func (t *KDTree) InsertAll(batch []Photon) {
	t.mu.Lock()
	for _, p := range batch {
		t.insertLocked(p)
	}
	t.mu.Unlock()
}

func (t *KDTree) insertLocked(p Photon) {
	if len(t.photons) == 0 {
		t.bounds = core.NewAABBFromPoints(p.Position)
	} else {
		t.bounds = t.bounds.Extend(p.Position)
	}
	t.photons = append(t.photons, p.Copy())
	t.dirty = true
}

// Build partitions the stored photons into the tree
func (t *KDTree) Build() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildLocked()
}

func (t *KDTree) buildLocked() {
	if !t.dirty {
		return
	}
	t.axes = make([]int8, len(t.photons))
	t.buildRange(0, len(t.photons), 0)
	t.dirty = false
}

// buildRange sorts [lo, hi) along the chosen axis and recurses on both halves of the median
func (t *KDTree) buildRange(lo, hi, depth int) {
	if hi-lo <= 0 {
		return
	}
	if hi-lo == 1 {
		t.axes[lo] = int8(t.split(depth, core.NewAABBFromPoints(t.photons[lo].Position)))
		return
	}

	subset := t.photons[lo:hi]
	bounds := core.NewAABBFromPoints(subset[0].Position)
	for _, p := range subset[1:] {
		bounds = bounds.Extend(p.Position)
	}

	axis := t.split(depth, bounds)
	slices.SortFunc(subset, Compare(axis))

	mid := lo + (hi-lo)/2
	t.axes[mid] = int8(axis)
	t.buildRange(lo, mid, depth+1)
	t.buildRange(mid+1, hi, depth+1)
}

// QueryNeighbors returns every photon within radius of point
func (t *KDTree) QueryNeighbors(point core.Vec3, radius float64) []Photon {
	if radius < 0 {
		return nil
	}

	t.mu.RLock()
	if !t.dirty {
		defer t.mu.RUnlock()
		return t.queryRange(0, len(t.photons), point, radius*radius, nil)
	}
	t.mu.RUnlock()

	// The rebuild and the walk share one write lock so no Insert or Reset lands between them
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildLocked()
	return t.queryRange(0, len(t.photons), point, radius*radius, nil)
}

func (t *KDTree) queryRange(lo, hi int, point core.Vec3, radiusSquared float64, out []Photon) []Photon {
	if hi-lo <= 0 {
		return out
	}

	mid := lo + (hi-lo)/2
	node := t.photons[mid]
	if node.Position.Subtract(point).LengthSquared() <= radiusSquared {
		out = append(out, node)
	}

	axis := int(t.axes[mid])
	diff := point.Axis(axis) - node.Position.Axis(axis)
	if diff <= 0 || diff*diff <= radiusSquared {
		out = t.queryRange(lo, mid, point, radiusSquared, out)
	}
	if diff >= 0 || diff*diff <= radiusSquared {
		out = t.queryRange(mid+1, hi, point, radiusSquared, out)
	}
	return out
}

// Len returns the number of stored photons
func (t *KDTree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.photons)
}

// Bounds returns the box around all stored photon positions
func (t *KDTree) Bounds() core.AABB {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bounds
}

// Reset discards all photons so the map can be refilled for the next pass
func (t *KDTree) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.photons = t.photons[:0]
	t.axes = nil
	t.bounds = core.AABB{}
	t.dirty = false
}

// treeStats describes the shape of the built tree
type treeStats struct {
	nodes    int
	maxDepth int
}

// stats walks the built tree; callers must Build first
func (t *KDTree) stats() treeStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var s treeStats
	t.collectStats(0, len(t.photons), 0, &s)
	return s
}

func (t *KDTree) collectStats(lo, hi, depth int, s *treeStats) {
	if hi-lo <= 0 {
		return
	}
	s.nodes++
	if depth > s.maxDepth {
		s.maxDepth = depth
	}
	mid := lo + (hi-lo)/2
	t.collectStats(lo, mid, depth+1, s)
	t.collectStats(mid+1, hi, depth+1, s)
}
