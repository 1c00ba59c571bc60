package geom

import (
	"math"
	"sort"
)

// PathInterpolator resamples an ordered point path at even arclength
// steps. Reset precomputes cumulative distances once; Lerp then maps a
// fractional distance t in [0, 1] to a point on the path.
//
// The padding given to Reset extends the sampled range beyond both
// ends of the path: PaddedLength = Length + 2*padding. Samples that
// fall in the padded zones are clamped to the nearest path endpoint,
// so the first and last sample of a padded path sit exactly on the
// path ends.
type PathInterpolator struct {
	points    []Point
	distances []float64
	length    float64
	padding   float64
}

// Reset replaces the path and recomputes cumulative arclength.
// The interpolator keeps no reference to previous paths, so one
// instance can be reused across segments.
func (pi *PathInterpolator) Reset(path []Point, padding float64) {
	pi.points = path
	pi.distances = append(pi.distances[:0], 0)
	for i := 1; i < len(path); i++ {
		pi.distances = append(pi.distances, pi.distances[i-1]+path[i].Distance(path[i-1]))
	}
	if len(path) > 0 {
		pi.length = pi.distances[len(path)-1]
	} else {
		pi.length = 0
	}
	pi.padding = padding
}

// Length returns the total arclength of the current path.
func (pi *PathInterpolator) Length() float64 {
	return pi.length
}

// PaddedLength returns the arclength including padding at both ends.
func (pi *PathInterpolator) PaddedLength() float64 {
	return pi.length + 2*pi.padding
}

// Lerp returns the point at fractional distance t along the padded
// path. t is clamped to [0, 1].
func (pi *PathInterpolator) Lerp(t float64) Point {
	if len(pi.points) == 0 {
		return Point{}
	}
	if len(pi.points) == 1 {
		return pi.points[0]
	}

	t = clamp(t, 0, 1)
	distance := clamp(t*pi.PaddedLength()-pi.padding, 0, pi.length)

	index := sort.SearchFloat64s(pi.distances, distance)
	if index == 0 {
		return pi.points[0]
	}
	if index >= len(pi.points) {
		return pi.points[len(pi.points)-1]
	}

	segmentLength := pi.distances[index] - pi.distances[index-1]
	if segmentLength == 0 {
		return pi.points[index]
	}
	segmentT := (distance - pi.distances[index-1]) / segmentLength
	return pi.points[index-1].Lerp(pi.points[index], segmentT)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
