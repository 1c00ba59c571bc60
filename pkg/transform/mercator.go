package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mercator is the flat web-mercator transform. Tile coordinates are
// scaled into world coordinates at the camera zoom and mapped through
// the camera matrix; nothing is ever occluded.
type Mercator struct {
	cam    Camera
	matrix mgl64.Mat4 // clip coordinates from world coordinates
}

// NewMercator creates a flat transform from a camera snapshot and its
// combined projection-view matrix over world coordinates.
func NewMercator(cam Camera, matrix mgl64.Mat4) *Mercator {
	return &Mercator{cam: cam, matrix: matrix}
}

// Camera returns the frame's camera snapshot.
func (t *Mercator) Camera() Camera { return t.cam }

// ProjectTileCoordinates projects a tile-local coordinate through the
// camera matrix.
func (t *Mercator) ProjectTileCoordinates(x, y float64, tile TileID, elevation ElevationFn) Projection {
	wx, wy := worldCoordinate(x, y, tile, t.cam.Zoom)
	z := 0.0
	if elevation != nil {
		z = elevation(x, y)
	}
	v := t.matrix.Mul4x1(mgl64.Vec4{wx, wy, z, 1})
	w := v.W()
	return Projection{
		X:                        v.X() / w,
		Y:                        v.Y() / w,
		SignedDistanceFromCamera: w,
	}
}

// PitchedTextCorrection is 1 on the flat map: mercator stretch and
// label layout agree by construction.
func (t *Mercator) PitchedTextCorrection(x, y float64, tile TileID) float64 {
	return 1
}

func (t *Mercator) sealed() {}

func exp2(v float64) float64 { return math.Exp2(v) }
