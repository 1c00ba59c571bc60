package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerda-ocm/collision/internal/grid"
	"github.com/zerda-ocm/collision/pkg/transform"
)

// DefaultViewportPadding is the margin, in pixels, added around the
// screen so that symbols just outside the viewport remain indexed.
// Without it, symbols would pop in and out at the screen edge as the
// camera moves.
const DefaultViewportPadding = 100

// Symbols closer to the horizon than this perspective ratio are never
// placed, regardless of free space.
const perspectiveRatioCutoff = 0.6

// Debug enables precondition assertions on caller geometry. Non-finite
// coordinates are a caller contract violation and are not checked in
// normal operation; with Debug set, placement panics on them instead
// of producing garbage decisions.
var Debug = false

// IndexOptions configures an Index.
type IndexOptions struct {
	// ViewportPadding overrides the margin added around the screen.
	// Zero means DefaultViewportPadding.
	ViewportPadding float64
}

// Index is the collision engine for one placement pass. It owns two
// append-only spatial grids, one for committed symbols and one for
// query-only ("ignored") symbols, and is bound to one immutable
// transform snapshot. An Index must not be shared across concurrent
// passes.
type Index struct {
	transform transform.Transform

	grid        *grid.Grid[FeatureKey]
	ignoredGrid *grid.Grid[FeatureKey]

	padding float64

	// Screen bounds in padded grid coordinates.
	screenRight  float64 // width + padding
	screenBottom float64 // height + padding
}

// New creates an Index for one placement pass over the given
// transform snapshot.
func New(t transform.Transform) *Index {
	return NewWithOptions(t, IndexOptions{})
}

// NewWithOptions creates an Index with explicit options.
func NewWithOptions(t transform.Transform, opts IndexOptions) *Index {
	padding := opts.ViewportPadding
	if padding == 0 {
		padding = DefaultViewportPadding
	}
	cam := t.Camera()
	idx := &Index{
		transform:    t,
		grid:         grid.New[FeatureKey](cam.Width+2*padding, cam.Height+2*padding),
		ignoredGrid:  grid.New[FeatureKey](cam.Width+2*padding, cam.Height+2*padding),
		padding:      padding,
		screenRight:  cam.Width + padding,
		screenBottom: cam.Height + padding,
	}
	logger().Debug("collision index created",
		"width", cam.Width, "height", cam.Height, "padding", padding)
	return idx
}

// Transform returns the transform snapshot the Index is bound to.
func (ci *Index) Transform() transform.Transform { return ci.transform }

// ViewportPadding returns the configured viewport padding.
func (ci *Index) ViewportPadding() float64 { return ci.padding }

// ViewportMatrix returns the matrix that maps padded grid coordinates
// back to viewport pixels, for debug rendering of collision geometry.
func (ci *Index) ViewportMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(-ci.padding, -ci.padding, 0)
}

// InsertCollisionBox commits a placed box so later symbols collide
// against it. box is the padded screen rectangle returned by
// PlaceCollisionBox. OverlapIgnored boxes go to the query-only grid.
func (ci *Index) InsertCollisionBox(box [4]float64, overlap OverlapMode, bucketID, featureIndex int, groupID uint16) {
	key := FeatureKey{
		BucketID:     bucketID,
		FeatureIndex: featureIndex,
		GroupID:      groupID,
		Overlap:      overlap,
		CircleIndex:  -1,
		GlyphIndex:   -1,
	}
	ci.targetGrid(overlap).Insert(key, box[0], box[1], box[2], box[3])
}

// InsertCollisionCircles commits a placed circle set. circles is the
// packed quad array returned by PlaceCollisionCircles; glyphs is its
// marker-glyph subset, used to tag the matching circle entries with
// glyph identity.
func (ci *Index) InsertCollisionCircles(circles []float64, overlap OverlapMode, bucketID, featureIndex int, groupID uint16, glyphs []GlyphCircle) {
	g := ci.targetGrid(overlap)

	byCircle := make(map[int]GlyphCircle, len(glyphs))
	for _, gc := range glyphs {
		byCircle[gc.CircleIndex] = gc
	}

	for i := 0; i+3 < len(circles); i += 4 {
		key := FeatureKey{
			BucketID:     bucketID,
			FeatureIndex: featureIndex,
			GroupID:      groupID,
			Overlap:      overlap,
			CircleIndex:  i / 4,
			GlyphIndex:   -1,
		}
		if gc, ok := byCircle[i/4]; ok {
			key.GlyphIndex = gc.GlyphIndex
			key.GlyphChar = gc.Char
		}
		g.InsertCircle(key, circles[i], circles[i+1], circles[i+2])
	}
}

func (ci *Index) targetGrid(overlap OverlapMode) *grid.Grid[FeatureKey] {
	if overlap == OverlapIgnored {
		return ci.ignoredGrid
	}
	return ci.grid
}

// projectedPoint is a tile coordinate mapped to padded screen space.
type projectedPoint struct {
	x, y             float64
	perspectiveRatio float64
	isOccluded       bool
	signedDistance   float64
}

// projectAnchor maps a tile coordinate to padded screen coordinates,
// through the fast-path matrix when one applies, otherwise through
// the transform.
func (ci *Index) projectAnchor(x, y float64, tile transform.TileID, elevation transform.ElevationFn, simple *mgl64.Mat4) projectedPoint {
	if Debug {
		assertFinite(x, y)
	}

	var p transform.Projection
	if simple != nil && elevation == nil {
		v := simple.Mul4x1(mgl64.Vec4{x, y, 0, 1})
		w := v.W()
		p = transform.Projection{
			X:                        v.X() / w,
			Y:                        v.Y() / w,
			SignedDistanceFromCamera: w,
		}
	} else {
		p = ci.transform.ProjectTileCoordinates(x, y, tile, elevation)
	}

	cam := ci.transform.Camera()
	return projectedPoint{
		x:                (p.X*0.5+0.5)*cam.Width + ci.padding,
		y:                (-p.Y*0.5+0.5)*cam.Height + ci.padding,
		perspectiveRatio: 0.5 + 0.5*(cam.CameraToCenterDistance/p.SignedDistanceFromCamera),
		isOccluded:       p.IsOccluded,
		signedDistance:   p.SignedDistanceFromCamera,
	}
}

// isOffscreen reports whether a padded-space box lies entirely
// outside the unpadded screen rectangle.
func (ci *Index) isOffscreen(x1, y1, x2, y2 float64) bool {
	return x2 < ci.padding || x1 >= ci.screenRight ||
		y2 < ci.padding || y1 >= ci.screenBottom
}

// isInsideGrid reports whether a padded-space box intersects the
// padded grid bounds.
func (ci *Index) isInsideGrid(x1, y1, x2, y2 float64) bool {
	return x2 >= 0 && x1 < ci.grid.Width() &&
		y2 >= 0 && y1 < ci.grid.Height()
}

func assertFinite(vals ...float64) {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic("collision: non-finite coordinate passed to placement")
		}
	}
}
