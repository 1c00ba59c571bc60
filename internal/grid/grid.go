// Package grid implements the append-only 2D spatial index backing
// symbol collision detection. Entries are axis-aligned boxes or
// circles tagged with an opaque key; the index answers overlap
// hit-tests and range queries but never removes entries. A grid lives
// for exactly one placement pass and is rebuilt fresh for the next.
package grid

import (
	"github.com/dhconnelly/rtreego"

	"github.com/zerda-ocm/collision/internal/geom"
)

// rtreego requires strictly positive rectangle extents; degenerate
// boxes are widened by this much.
const minExtent = 1e-9

// Entry is one stored shape with its caller-supplied key.
// X1..Y2 hold the bounding box; for circles it is the box
// circumscribing the circle.
type Entry[K any] struct {
	Key            K
	X1, Y1, X2, Y2 float64

	Circle           bool
	CenterX, CenterY float64
	Radius           float64
}

// Bounds implements rtreego.Spatial.
func (e *Entry[K]) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{e.X1, e.Y1},
		[]float64{max(e.X2-e.X1, minExtent), max(e.Y2-e.Y1, minExtent)},
	)
	return rect
}

// Grid is a generic append-only spatial index over boxes and circles.
//
// All operations are total over finite numeric input; passing NaN or
// infinite coordinates is a caller precondition violation and is not
// checked here.
type Grid[K any] struct {
	tree    *rtreego.Rtree
	entries []*Entry[K]

	width  float64 // padded grid width
	height float64 // padded grid height
}

// New creates an empty grid covering [0, width] x [0, height].
func New[K any](width, height float64) *Grid[K] {
	return &Grid[K]{
		tree:   rtreego.NewTree(2, 8, 16),
		width:  width,
		height: height,
	}
}

// Width returns the padded grid width.
func (g *Grid[K]) Width() float64 { return g.width }

// Height returns the padded grid height.
func (g *Grid[K]) Height() float64 { return g.height }

// Insert records a static box. Entries cannot be removed.
func (g *Grid[K]) Insert(key K, x1, y1, x2, y2 float64) {
	e := &Entry[K]{Key: key, X1: x1, Y1: y1, X2: x2, Y2: y2}
	g.entries = append(g.entries, e)
	g.tree.Insert(e)
}

// InsertCircle records a static circle.
func (g *Grid[K]) InsertCircle(key K, cx, cy, radius float64) {
	e := &Entry[K]{
		Key: key,
		X1:  cx - radius, Y1: cy - radius,
		X2: cx + radius, Y2: cy + radius,
		Circle:  true,
		CenterX: cx, CenterY: cy,
		Radius: radius,
	}
	g.entries = append(g.entries, e)
	g.tree.Insert(e)
}

// HitTest reports whether any stored entry accepted by predicate
// overlaps the box. A nil predicate accepts every entry.
func (g *Grid[K]) HitTest(x1, y1, x2, y2 float64, predicate func(K) bool) bool {
	return g.search(x1, y1, x2, y2, func(e *Entry[K]) bool {
		if e.Circle {
			return geom.CircleAndRectCollide(e.CenterX, e.CenterY, e.Radius, x1, y1, x2, y2)
		}
		return true // box vs box: the tree search is already exact
	}, predicate)
}

// HitTestCircle reports whether any stored entry accepted by predicate
// overlaps the circle. A nil predicate accepts every entry.
func (g *Grid[K]) HitTestCircle(cx, cy, radius float64, predicate func(K) bool) bool {
	return g.search(cx-radius, cy-radius, cx+radius, cy+radius, func(e *Entry[K]) bool {
		if e.Circle {
			return geom.CirclesCollide(e.CenterX, e.CenterY, e.Radius, cx, cy, radius)
		}
		return geom.CircleAndRectCollide(cx, cy, radius, e.X1, e.Y1, e.X2, e.Y2)
	}, predicate)
}

func (g *Grid[K]) search(x1, y1, x2, y2 float64, overlaps func(*Entry[K]) bool, predicate func(K) bool) bool {
	hit := false
	g.tree.SearchIntersect(queryRect(x1, y1, x2, y2),
		func(results []rtreego.Spatial, object rtreego.Spatial) (bool, bool) {
			e := object.(*Entry[K])
			if predicate != nil && !predicate(e.Key) {
				return true, false
			}
			if !overlaps(e) {
				return true, false
			}
			hit = true
			return true, true // first confirmed overlap ends the search
		})
	return hit
}

// Query returns every entry whose bounding box intersects the given
// box. Used for hit-resolution queries, not for placement rejection:
// circles are matched by bounding box only.
func (g *Grid[K]) Query(x1, y1, x2, y2 float64) []*Entry[K] {
	var found []*Entry[K]
	g.tree.SearchIntersect(queryRect(x1, y1, x2, y2),
		func(results []rtreego.Spatial, object rtreego.Spatial) (bool, bool) {
			found = append(found, object.(*Entry[K]))
			return true, false
		})
	return found
}

// Len reports the number of stored entries.
func (g *Grid[K]) Len() int {
	return len(g.entries)
}

func queryRect(x1, y1, x2, y2 float64) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{x1, y1},
		[]float64{max(x2-x1, minExtent), max(y2-y1, minExtent)},
	)
	return rect
}
