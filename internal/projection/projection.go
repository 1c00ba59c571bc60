// Package projection places line-following label glyphs in the label
// plane. It walks glyph offsets along a projected polyline, caching
// per-vertex projections for the duration of one placement call.
package projection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerda-ocm/collision/internal/geom"
)

// Context carries the state of one placement call: the tile-space line
// vertices shared by the symbol's bucket, the label-plane matrix, and
// a cache of already-projected vertices. It is created per call and
// discarded at call end.
type Context struct {
	line   []geom.Point
	matrix mgl64.Mat4
	cache  map[int]geom.Point
}

// NewContext creates a projection context over the given line
// vertices.
func NewContext(line []geom.Point, labelPlaneMatrix mgl64.Mat4) *Context {
	return &Context{
		line:   line,
		matrix: labelPlaneMatrix,
		cache:  make(map[int]geom.Point),
	}
}

// Vertex returns line vertex i projected into the label plane,
// memoized for the lifetime of the context.
func (c *Context) Vertex(i int) geom.Point {
	if p, ok := c.cache[i]; ok {
		return p
	}
	p := Project(c.line[i], c.matrix)
	c.cache[i] = p
	return p
}

// Project maps a point through a 4x4 matrix with perspective divide.
func Project(p geom.Point, m mgl64.Mat4) geom.Point {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, 0, 1})
	return geom.Point{X: v.X() / v.W(), Y: v.Y() / v.W()}
}

// ProjectWithDistance maps a point through a 4x4 matrix and also
// returns the signed distance from the camera (the homogeneous w).
// A non-positive distance means the point is behind the camera plane.
func ProjectWithDistance(p geom.Point, m mgl64.Mat4) (geom.Point, float64) {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, 0, 1})
	return geom.Point{X: v.X() / v.W(), Y: v.Y() / v.W()}, v.W()
}

// PlacedGlyph is the result of walking one glyph offset along a line:
// the glyph position, its rotation angle, and the label-plane path
// from the anchor to the glyph.
type PlacedGlyph struct {
	Point geom.Point
	Angle float64
	Path  []geom.Point
}

// PlaceGlyphAlongLine walks offsetX along the projected line from the
// anchor and returns the resulting glyph placement. It fails when the
// offset runs off either end of the line.
//
// anchor must already be projected into the label plane. lineStart and
// lineLength bound the symbol's vertex span within the context's line
// array; anchorSegment is the segment index the anchor lies on,
// relative to lineStart.
func PlaceGlyphAlongLine(ctx *Context, offsetX, lineOffsetX, lineOffsetY float64, flip bool, anchor geom.Point, lineStart, lineLength, anchorSegment int) (PlacedGlyph, bool) {
	combinedOffsetX := offsetX + lineOffsetX
	if flip {
		combinedOffsetX = offsetX - lineOffsetX
	}

	dir := 1
	if combinedOffsetX < 0 {
		dir = -1
	}
	angle := 0.0
	if flip {
		dir = -dir
		angle = math.Pi
	}
	if dir < 0 {
		angle += math.Pi
	}

	lineEnd := lineStart + lineLength
	currentIndex := lineStart + anchorSegment
	if dir < 0 {
		currentIndex = lineStart + anchorSegment + 1
	}

	current := anchor
	prev := anchor
	distanceToPrev := 0.0
	segmentDistance := 0.0
	absOffsetX := math.Abs(combinedOffsetX)
	var path []geom.Point

	for distanceToPrev+segmentDistance <= absOffsetX {
		currentIndex += dir
		if currentIndex < lineStart || currentIndex >= lineEnd {
			// The offset does not fit on the line.
			return PlacedGlyph{}, false
		}
		prev = current
		path = append(path, current)
		current = ctx.Vertex(currentIndex)
		distanceToPrev += segmentDistance
		segmentDistance = prev.Distance(current)
	}

	// The glyph lies on the current segment; interpolate to find it.
	segmentT := (absOffsetX - distanceToPrev) / segmentDistance
	toCurrent := current.Sub(prev)
	p := prev.Add(toCurrent.Mul(segmentT))

	if lineOffsetY != 0 {
		p = p.Add(toCurrent.Normalize().Perp().Mul(lineOffsetY * float64(dir)))
	}
	path = append(path, p)

	return PlacedGlyph{
		Point: p,
		Angle: angle + math.Atan2(current.Y-prev.Y, current.X-prev.X),
		Path:  path,
	}, true
}

// FirstAndLastGlyph places the first and last glyph of a symbol along
// its line. Both must fit for the symbol to be placeable; ok is false
// otherwise.
func FirstAndLastGlyph(ctx *Context, fontScale float64, glyphOffsets []float64, lineOffsetX, lineOffsetY float64, flip bool, anchor geom.Point, lineStart, lineLength, anchorSegment int) (first, last PlacedGlyph, ok bool) {
	if len(glyphOffsets) == 0 {
		return PlacedGlyph{}, PlacedGlyph{}, false
	}

	first, ok = PlaceGlyphAlongLine(ctx, fontScale*glyphOffsets[0], lineOffsetX, lineOffsetY, flip, anchor, lineStart, lineLength, anchorSegment)
	if !ok {
		return PlacedGlyph{}, PlacedGlyph{}, false
	}
	last, ok = PlaceGlyphAlongLine(ctx, fontScale*glyphOffsets[len(glyphOffsets)-1], lineOffsetX, lineOffsetY, flip, anchor, lineStart, lineLength, anchorSegment)
	if !ok {
		return PlacedGlyph{}, PlacedGlyph{}, false
	}
	return first, last, true
}
