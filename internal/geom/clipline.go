package geom

// ClipLines clips polylines against the axis-aligned rectangle
// [minX, maxX) x [minY, maxY), yielding zero or more disjoint
// sub-paths with point order preserved. A polyline that leaves and
// re-enters the rectangle is split at every crossing.
func ClipLines(lines [][]Point, minX, minY, maxX, maxY float64) [][]Point {
	var clipped [][]Point

	for _, line := range lines {
		var current []Point

		for i := 0; i+1 < len(line); i++ {
			p0 := line[i]
			p1 := line[i+1]

			// Clip the segment against each rectangle edge in turn.
			// A segment entirely outside any edge is discarded;
			// otherwise the offending endpoint is moved onto the edge.
			if p0.X < minX && p1.X < minX {
				continue
			} else if p0.X < minX {
				p0 = Point{X: minX, Y: p0.Y + (p1.Y-p0.Y)*((minX-p0.X)/(p1.X-p0.X))}
			} else if p1.X < minX {
				p1 = Point{X: minX, Y: p0.Y + (p1.Y-p0.Y)*((minX-p0.X)/(p1.X-p0.X))}
			}

			if p0.Y < minY && p1.Y < minY {
				continue
			} else if p0.Y < minY {
				p0 = Point{X: p0.X + (p1.X-p0.X)*((minY-p0.Y)/(p1.Y-p0.Y)), Y: minY}
			} else if p1.Y < minY {
				p1 = Point{X: p0.X + (p1.X-p0.X)*((minY-p0.Y)/(p1.Y-p0.Y)), Y: minY}
			}

			if p0.X >= maxX && p1.X >= maxX {
				continue
			} else if p0.X >= maxX {
				p0 = Point{X: maxX, Y: p0.Y + (p1.Y-p0.Y)*((maxX-p0.X)/(p1.X-p0.X))}
			} else if p1.X >= maxX {
				p1 = Point{X: maxX, Y: p0.Y + (p1.Y-p0.Y)*((maxX-p0.X)/(p1.X-p0.X))}
			}

			if p0.Y >= maxY && p1.Y >= maxY {
				continue
			} else if p0.Y >= maxY {
				p0 = Point{X: p0.X + (p1.X-p0.X)*((maxY-p0.Y)/(p1.Y-p0.Y)), Y: maxY}
			} else if p1.Y >= maxY {
				p1 = Point{X: p0.X + (p1.X-p0.X)*((maxY-p0.Y)/(p1.Y-p0.Y)), Y: maxY}
			}

			// Start a new sub-path unless this segment continues the
			// previous one.
			if current == nil || p0 != current[len(current)-1] {
				current = []Point{p0}
				clipped = append(clipped, current)
			}
			current = append(current, p1)
			clipped[len(clipped)-1] = current
		}
	}

	return clipped
}
