package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Globe is the spherical transform. Tile coordinates are unprojected
// to latitude/longitude, lifted onto a unit sphere, and mapped through
// the camera matrix. Points on the far hemisphere are reported as
// occluded.
type Globe struct {
	cam       Camera
	matrix    mgl64.Mat4 // clip coordinates from sphere coordinates
	cameraPos r3.Vector  // camera position in sphere coordinates
}

// NewGlobe creates a spherical transform from a camera snapshot, its
// combined projection-view matrix over unit-sphere coordinates, and
// the camera position in the same space.
func NewGlobe(cam Camera, matrix mgl64.Mat4, cameraPos r3.Vector) *Globe {
	return &Globe{cam: cam, matrix: matrix, cameraPos: cameraPos}
}

// Camera returns the frame's camera snapshot.
func (t *Globe) Camera() Camera { return t.cam }

// ProjectTileCoordinates projects a tile-local coordinate onto the
// sphere and through the camera matrix.
func (t *Globe) ProjectTileCoordinates(x, y float64, tile TileID, elevation ElevationFn) Projection {
	pos := t.surfacePoint(x, y, tile)
	if elevation != nil {
		// One world circumference in tile units spans 2*pi sphere units.
		worldSize := TileExtent * exp2(t.cam.Zoom)
		pos = pos.Mul(1 + elevation(x, y)*2*math.Pi/worldSize)
	}

	v := t.matrix.Mul4x1(mgl64.Vec4{pos.X, pos.Y, pos.Z, 1})
	w := v.W()
	return Projection{
		X:                        v.X() / w,
		Y:                        v.Y() / w,
		SignedDistanceFromCamera: w,
		IsOccluded:               t.isOccluded(pos),
	}
}

// isOccluded reports whether a sphere-space point lies behind the
// horizon: the camera must be on the outward side of the tangent
// plane at the point.
func (t *Globe) isOccluded(pos r3.Vector) bool {
	return t.cameraPos.Sub(pos).Dot(pos) < 0
}

// PitchedTextCorrection compensates the mercator stretch baked into
// tile-space label layout: glyphs laid out in tile units shrink by
// cos(latitude) when drawn on the sphere.
func (t *Globe) PitchedTextCorrection(x, y float64, tile TileID) float64 {
	_, my := mercatorFraction(x, y, tile)
	lat := latFromMercatorY(my)
	return math.Cos(lat)
}

func (t *Globe) sealed() {}

// surfacePoint returns the unit-sphere position of a tile coordinate,
// y-up with longitude 0 facing +z.
func (t *Globe) surfacePoint(x, y float64, tile TileID) r3.Vector {
	mx, my := mercatorFraction(x, y, tile)
	lng := (mx - 0.5) * 2 * math.Pi
	lat := latFromMercatorY(my)
	cosLat := math.Cos(lat)
	return r3.Vector{
		X: cosLat * math.Sin(lng),
		Y: math.Sin(lat),
		Z: cosLat * math.Cos(lng),
	}
}

// latFromMercatorY inverts the web mercator projection, returning
// latitude in radians for a mercator fraction in [0, 1].
func latFromMercatorY(my float64) float64 {
	return math.Atan(math.Sinh(math.Pi * (1 - 2*my)))
}
