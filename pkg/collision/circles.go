package collision

import (
	"math"

	"github.com/zerda-ocm/collision/internal/geom"
	"github.com/zerda-ocm/collision/internal/projection"
)

// Glyph offsets are expressed in text units of one em.
const oneEm = 24

// Collision circles are spaced this many radii apart along the label
// path.
const circleSpacingFactor = 2.5

// PlaceCollisionCircles approximates a line-following label with a
// chain of screen-space collision circles and decides whether the
// label may be drawn.
//
// The label path spans the first to the last glyph, resampled at even
// arclength steps. On the first conflicting circle the placement
// aborts with an empty set and CollisionDetected set, unless
// ShowCircles requests the full debug set, in which case conflicting
// circles are flagged and placement continues.
func (ci *Index) PlaceCollisionCircles(p CirclePlacement) PlacedCircles {
	anchorX := p.Symbol.AnchorX + p.Translation[0]
	anchorY := p.Symbol.AnchorY + p.Translation[1]

	projectedAnchor := ci.projectAnchor(anchorX, anchorY, p.Tile, p.Elevation, nil)
	perspectiveRatio := projectedAnchor.perspectiveRatio

	// Font scale in the label plane: sizes shrink with distance for
	// viewport-aligned text but grow for map-pitched text, which the
	// perspective divide shrinks again on screen.
	labelPlaneFontSize := p.FontSize * perspectiveRatio
	if p.PitchWithMap {
		labelPlaneFontSize = p.FontSize / perspectiveRatio
	}
	fontScale := labelPlaneFontSize / oneEm

	line := make([]geom.Point, len(p.Line))
	for i, pt := range p.Line {
		line[i] = geom.Pt(pt.X, pt.Y)
	}
	ctx := projection.NewContext(line, p.LabelPlaneMatrix)
	labelPlaneAnchor := projection.Project(geom.Pt(anchorX, anchorY), p.LabelPlaneMatrix)

	place := func(flip bool) (projection.PlacedGlyph, projection.PlacedGlyph, bool) {
		return projection.FirstAndLastGlyph(ctx, fontScale,
			p.Symbol.GlyphOffsets, p.Symbol.LineOffsetX, p.Symbol.LineOffsetY,
			flip, labelPlaneAnchor,
			p.Symbol.LineStartIndex, p.Symbol.LineLength, p.Symbol.SegmentIndex)
	}

	flip := false
	first, last, ok := place(flip)
	if ok && p.KeepUpright {
		needsFlip, ambiguous := orientationChange(p.Symbol.Vertical, first.Point, last.Point)
		if ambiguous {
			// Horizontal text that is near-vertical on screen: wait
			// for a frame where the orientation is unambiguous.
			return PlacedCircles{Occluded: projectedAnchor.isOccluded}
		}
		if needsFlip {
			flip = true
			first, last, ok = place(flip)
		}
	}

	var circles []float64
	var glyphs []GlyphCircle
	collisionDetected := false
	inGrid := false
	entirelyOffscreen := true

	if ok {
		zoomFraction := ci.transform.Camera().Zoom - math.Floor(ci.transform.Camera().Zoom)
		radius := 0.5*p.CircleDiameter*perspectiveRatio*math.Exp2(-zoomFraction) + p.Padding
		circleDist := radius * circleSpacingFactor

		// One path from first to last glyph: the leading half walks
		// away from the anchor, so it is reversed; the shared anchor
		// vertex is dropped from both halves.
		path := make([]geom.Point, 0, len(first.Path)+len(last.Path)-2)
		for i := len(first.Path) - 1; i >= 1; i-- {
			path = append(path, first.Path[i])
		}
		for i := 1; i < len(last.Path); i++ {
			path = append(path, last.Path[i])
		}

		if p.LabelToScreenMatrix != nil {
			// Pitched label plane: convert the path to screen space.
			// A single point behind the camera invalidates the whole
			// path.
			screenPath := make([]geom.Point, len(path))
			for i, pt := range path {
				sp, dist := projection.ProjectWithDistance(pt, *p.LabelToScreenMatrix)
				if dist <= 0 {
					screenPath = nil
					break
				}
				screenPath[i] = sp
			}
			path = screenPath
		}

		var segments [][]geom.Point
		if len(path) > 0 {
			minP, maxP := pathBounds(path)
			switch {
			case minP.X >= -ci.padding && minP.Y >= -ci.padding &&
				maxP.X <= ci.screenRight && maxP.Y <= ci.screenBottom:
				// Entirely inside the padded viewport.
				segments = [][]geom.Point{path}
			case maxP.X < -ci.padding || maxP.Y < -ci.padding ||
				minP.X > ci.screenRight || minP.Y > ci.screenBottom:
				// Entirely outside: no circles.
			default:
				segments = geom.ClipLines([][]geom.Point{path},
					-ci.padding, -ci.padding, ci.screenRight, ci.screenBottom)
			}
		}

		var interp geom.PathInterpolator
		for _, seg := range segments {
			interp.Reset(seg, radius*0.25)

			numCircles := 1
			if interp.Length() > 0.5*radius {
				numCircles = int(math.Ceil(interp.PaddedLength()/circleDist)) + 1
			}

			for i := 0; i < numCircles; i++ {
				t := float64(i) / math.Max(float64(numCircles-1), 1)
				pos := interp.Lerp(t)

				cx := pos.X + ci.padding
				cy := pos.Y + ci.padding
				circles = append(circles, cx, cy, radius, CircleFlagNone)

				x1, y1 := cx-radius, cy-radius
				x2, y2 := cx+radius, cy+radius
				entirelyOffscreen = entirelyOffscreen && ci.isOffscreen(x1, y1, x2, y2)
				inGrid = inGrid || ci.isInsideGrid(x1, y1, x2, y2)

				if p.Overlap == OverlapCooperative &&
					ci.grid.HitTestCircle(cx, cy, radius, p.Predicate) {
					if !p.ShowCircles {
						return PlacedCircles{CollisionDetected: true}
					}
					collisionDetected = true
					circles[len(circles)-1] = CircleFlagCollided
				}
			}
		}

		// Marker glyphs get one flagged circle each at their own
		// position, independent of the abort logic above so queries
		// can always resolve them.
		for gi, ch := range p.Symbol.GlyphChars {
			if !IsMarkerGlyph(ch) || gi >= len(p.Symbol.GlyphOffsets) {
				continue
			}
			placed, gok := projection.PlaceGlyphAlongLine(ctx,
				fontScale*p.Symbol.GlyphOffsets[gi],
				p.Symbol.LineOffsetX, p.Symbol.LineOffsetY,
				flip, labelPlaneAnchor,
				p.Symbol.LineStartIndex, p.Symbol.LineLength, p.Symbol.SegmentIndex)
			if !gok {
				continue
			}

			pt := placed.Point
			if p.LabelToScreenMatrix != nil {
				sp, dist := projection.ProjectWithDistance(pt, *p.LabelToScreenMatrix)
				if dist <= 0 {
					continue
				}
				pt = sp
			}

			cx := pt.X + ci.padding
			cy := pt.Y + ci.padding
			glyphs = append(glyphs, GlyphCircle{
				CircleIndex: len(circles) / 4,
				GlyphIndex:  gi,
				Char:        ch,
			})
			circles = append(circles, cx, cy, radius, CircleFlagGlyph)

			x1, y1 := cx-radius, cy-radius
			x2, y2 := cx+radius, cy+radius
			entirelyOffscreen = entirelyOffscreen && ci.isOffscreen(x1, y1, x2, y2)
			inGrid = inGrid || ci.isInsideGrid(x1, y1, x2, y2)
		}
	}

	if (collisionDetected && !p.ShowCircles) || !inGrid ||
		perspectiveRatio < perspectiveRatioCutoff {
		circles = nil
		glyphs = nil
	}

	return PlacedCircles{
		Circles:           circles,
		Glyphs:            glyphs,
		Offscreen:         entirelyOffscreen,
		CollisionDetected: collisionDetected,
		Occluded:          projectedAnchor.isOccluded,
	}
}

// orientationChange decides flip handling for upright-enforced
// labels. Horizontal text that runs more vertically than horizontally
// on screen is ambiguous and refused; otherwise text reading
// backwards (or vertical text reading upwards) is flipped.
func orientationChange(vertical bool, first, last geom.Point) (flip, ambiguous bool) {
	if !vertical {
		rise := math.Abs(last.Y - first.Y)
		run := math.Abs(last.X - first.X)
		if rise > run {
			return false, true
		}
		return first.X > last.X, false
	}
	return first.Y < last.Y, false
}

func pathBounds(path []geom.Point) (minP, maxP geom.Point) {
	minP = path[0]
	maxP = path[0]
	for _, p := range path[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}
