package collision

import (
	"math"

	"github.com/zerda-ocm/collision/internal/geom"
	"github.com/zerda-ocm/collision/internal/grid"
)

// QueryRenderedSymbols returns the symbols whose committed collision
// geometry intersects the given viewport-space polygon, grouped by
// bucket.
//
// Both grids are consulted, so OverlapIgnored symbols are hit-testable
// even though they never block placement. Box hits deduplicate per
// (bucket, feature); circle hits deduplicate per (bucket, feature,
// circle), so a multi-circle curved label can report several distinct
// circle hits for one feature.
func (ci *Index) QueryRenderedSymbols(viewportPolygon []Point) map[int][]QueryMatch {
	result := make(map[int][]QueryMatch)
	if len(viewportPolygon) == 0 || (ci.grid.Len() == 0 && ci.ignoredGrid.Len() == 0) {
		return result
	}

	query := make([]geom.Point, len(viewportPolygon))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range viewportPolygon {
		gp := geom.Pt(p.X+ci.padding, p.Y+ci.padding)
		query[i] = gp
		minX = math.Min(minX, gp.X)
		minY = math.Min(minY, gp.Y)
		maxX = math.Max(maxX, gp.X)
		maxY = math.Max(maxY, gp.Y)
	}

	entries := ci.grid.Query(minX, minY, maxX, maxY)
	entries = append(entries, ci.ignoredGrid.Query(minX, minY, maxX, maxY)...)

	type seenKey struct {
		bucket, feature, circle int
	}
	seen := make(map[seenKey]struct{})

	for _, e := range entries {
		key := e.Key
		sk := seenKey{key.BucketID, key.FeatureIndex, key.CircleIndex}
		if _, dup := seen[sk]; dup {
			continue
		}
		if !geom.PolygonIntersectsPolygon(query, entryCorners(e)) {
			continue
		}
		seen[sk] = struct{}{}
		result[key.BucketID] = append(result[key.BucketID], QueryMatch{
			FeatureIndex: key.FeatureIndex,
			CircleIndex:  key.CircleIndex,
			GlyphIndex:   key.GlyphIndex,
			GlyphChar:    key.GlyphChar,
		})
	}

	return result
}

func entryCorners(e *grid.Entry[FeatureKey]) []geom.Point {
	return []geom.Point{
		{X: e.X1, Y: e.Y1},
		{X: e.X2, Y: e.Y1},
		{X: e.X2, Y: e.Y2},
		{X: e.X1, Y: e.Y2},
	}
}
