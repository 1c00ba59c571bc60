package geom

// PolygonIntersectsPolygon reports whether two polygons overlap.
// Polygons are given as vertex rings; closing edges are implied.
// Touching edges count as an intersection.
func PolygonIntersectsPolygon(a, b []Point) bool {
	for i := 0; i < len(a); i++ {
		a0 := a[i]
		a1 := a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			if segmentsIntersect(a0, a1, b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	if len(a) > 0 && PolygonContainsPoint(b, a[0]) {
		return true
	}
	if len(b) > 0 && PolygonContainsPoint(a, b[0]) {
		return true
	}
	return false
}

// PolygonContainsPoint reports whether p lies inside the polygon ring,
// using even-odd ray casting.
func PolygonContainsPoint(ring []Point, p Point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		p1 := ring[i]
		p2 := ring[j]
		if (p1.Y > p.Y) != (p2.Y > p.Y) &&
			p.X < (p2.X-p1.X)*(p.Y-p1.Y)/(p2.Y-p1.Y)+p1.X {
			inside = !inside
		}
	}
	return inside
}

// segmentsIntersect reports whether segments a0-a1 and b0-b1 cross,
// including collinear touching.
func segmentsIntersect(a0, a1, b0, b1 Point) bool {
	d1 := direction(b0, b1, a0)
	d2 := direction(b0, b1, a1)
	d3 := direction(a0, a1, b0)
	d4 := direction(a0, a1, b1)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(b0, b1, a0)) ||
		(d2 == 0 && onSegment(b0, b1, a1)) ||
		(d3 == 0 && onSegment(a0, a1, b0)) ||
		(d4 == 0 && onSegment(a0, a1, b1))
}

func direction(p, q, r Point) float64 {
	return r.Sub(p).Cross(q.Sub(p))
}

func onSegment(p, q, r Point) bool {
	return r.X >= min(p.X, q.X) && r.X <= max(p.X, q.X) &&
		r.Y >= min(p.Y, q.Y) && r.Y <= max(p.Y, q.Y)
}

// CirclesCollide reports whether two circles overlap.
func CirclesCollide(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	both := r1 + r2
	return dx*dx+dy*dy <= both*both
}

// CircleAndRectCollide reports whether a circle overlaps an
// axis-aligned rectangle.
func CircleAndRectCollide(cx, cy, r, x1, y1, x2, y2 float64) bool {
	halfW := (x2 - x1) / 2
	dx := abs(cx - (x1 + halfW))
	if dx > halfW+r {
		return false
	}

	halfH := (y2 - y1) / 2
	dy := abs(cy - (y1 + halfH))
	if dy > halfH+r {
		return false
	}

	if dx <= halfW || dy <= halfH {
		return true
	}

	// Corner case: compare against the nearest corner.
	ex := dx - halfW
	ey := dy - halfH
	return ex*ex+ey*ey <= r*r
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
