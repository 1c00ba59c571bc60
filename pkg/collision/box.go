package collision

import (
	"math"

	"github.com/zerda-ocm/collision/internal/geom"
)

// PlaceCollisionBox projects a symbol's collision box into padded
// screen space and decides whether the symbol may be drawn.
//
// Rejection runs cheapest-first: occlusion, then the near-horizon
// perspective cutoff, then grid bounds, then the grid hit-test (for
// cooperative boxes only). The returned Offscreen flag is computed
// independently of the placement outcome.
func (ci *Index) PlaceCollisionBox(p BoxPlacement) PlacedBox {
	box := p.Box
	anchorX := box.AnchorX + p.Translation[0]
	anchorY := box.AnchorY + p.Translation[1]

	projected := ci.projectAnchor(anchorX, anchorY, p.Tile, p.Elevation, p.SimpleMatrix)
	tileToViewport := p.PixelRatio * projected.perspectiveRatio

	var screen [4]float64
	occluded := projected.isOccluded

	if !p.PitchWithMap && !p.RotateWithMap {
		// Fast path: a screen-axis-aligned box scaled around the
		// projected anchor. No further transform needed.
		px := projected.x
		py := projected.y
		if p.Shift != nil {
			px += p.Shift.X * tileToViewport
			py += p.Shift.Y * tileToViewport
		}
		screen = [4]float64{
			px + box.X1*tileToViewport,
			py + box.Y1*tileToViewport,
			px + box.X2*tileToViewport,
			py + box.Y2*tileToViewport,
		}
	} else {
		var allOccluded bool
		screen, allOccluded = ci.projectBoxPerimeter(p, projected, tileToViewport, anchorX, anchorY)
		if p.PitchWithMap {
			// A pitched box straddling the horizon stays eligible:
			// it is occluded only when every perimeter point is.
			occluded = allOccluded
		}
	}

	result := PlacedBox{
		Box:       screen,
		Offscreen: ci.isOffscreen(screen[0], screen[1], screen[2], screen[3]),
		Occluded:  occluded,
	}

	if occluded {
		return result
	}
	if projected.perspectiveRatio < perspectiveRatioCutoff {
		return result
	}
	if !ci.isInsideGrid(screen[0], screen[1], screen[2], screen[3]) {
		return result
	}
	if box.Overlap == OverlapCooperative &&
		ci.grid.HitTest(screen[0], screen[1], screen[2], screen[3], p.Predicate) {
		return result
	}

	result.Placeable = true
	return result
}

// projectBoxPerimeter handles pitched and/or map-rotated boxes: it
// derives east/south basis vectors, builds the box's 8-point
// perimeter (corners plus edge midpoints) in that basis, and returns
// the bounding box of the perimeter in padded screen space.
func (ci *Index) projectBoxPerimeter(p BoxPlacement, projected projectedPoint, tileToViewport, anchorX, anchorY float64) ([4]float64, bool) {
	box := p.Box
	cam := ci.transform.Camera()

	vecEast := geom.Pt(1, 0)
	vecSouth := geom.Pt(0, 1)

	if p.RotateWithMap && !p.PitchWithMap {
		// Viewport-pitch-aligned text rotated with the map: the east
		// basis is the screen direction toward a point one tile unit
		// east of the anchor.
		east := ci.projectAnchor(anchorX+1, anchorY, p.Tile, p.Elevation, p.SimpleMatrix)
		toEast := geom.Pt(east.x-projected.x, east.y-projected.y).Normalize()
		vecEast = toEast
		vecSouth = toEast.Perp()
	} else if !p.RotateWithMap && p.PitchWithMap {
		// Map-pitch-aligned text rotated with the viewport: undo the
		// camera bearing so the box stays upright on screen.
		angle := -cam.Bearing
		vecEast = geom.Pt(math.Cos(angle), math.Sin(angle))
		vecSouth = geom.Pt(-math.Sin(angle), math.Cos(angle))
	}

	basePoint := geom.Pt(projected.x, projected.y)
	distanceMultiplier := tileToViewport

	if p.PitchWithMap {
		// Pitched boxes are laid out in tile units around the tile
		// anchor and reprojected point by point below.
		basePoint = geom.Pt(anchorX, anchorY)

		zoomFraction := cam.Zoom - math.Floor(cam.Zoom)
		distanceMultiplier = math.Exp2(-zoomFraction)
		distanceMultiplier *= ci.transform.PitchedTextCorrection(anchorX, anchorY, p.Tile)

		if p.Shift != nil {
			// Variable anchors shift in screen units; mirror the
			// shader's distance-based perspective compensation.
			distanceMultiplier *= 0.5 + 0.5*(projected.signedDistance/cam.CameraToCenterDistance)
		}
	}

	if p.Shift != nil {
		basePoint = basePoint.
			Add(vecEast.Mul(p.Shift.X * distanceMultiplier)).
			Add(vecSouth.Mul(p.Shift.Y * distanceMultiplier))
	}

	x1 := box.X1 * distanceMultiplier
	x2 := box.X2 * distanceMultiplier
	xHalf := (x1 + x2) / 2
	y1 := box.Y1 * distanceMultiplier
	y2 := box.Y2 * distanceMultiplier
	yHalf := (y1 + y2) / 2

	offsets := [8]geom.Point{
		{X: x1, Y: y1},
		{X: xHalf, Y: y1},
		{X: x2, Y: y1},
		{X: x2, Y: yHalf},
		{X: x2, Y: y2},
		{X: xHalf, Y: y2},
		{X: x1, Y: y2},
		{X: x1, Y: yHalf},
	}

	var points [8]geom.Point
	for i, o := range offsets {
		points[i] = basePoint.Add(vecEast.Mul(o.X)).Add(vecSouth.Mul(o.Y))
	}

	allOccluded := false
	if p.PitchWithMap {
		allOccluded = true
		for i, pt := range points {
			pp := ci.projectAnchor(pt.X, pt.Y, p.Tile, p.Elevation, p.SimpleMatrix)
			allOccluded = allOccluded && pp.isOccluded
			points[i] = geom.Pt(pp.x, pp.y)
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}

	return [4]float64{minX, minY, maxX, maxY}, allOccluded
}
