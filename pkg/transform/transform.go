// Package transform provides the camera transforms consumed by the
// collision engine: a flat (web mercator) transform, a spherical
// (globe) transform, and a blended transition between the two.
//
// The set is closed: collision geometry must match what the GPU
// draws, and the renderer only ever draws these three projections.
// The Transition variant owns one instance of each pure mode and
// forwards with per-axis linear interpolation, mirroring vertex
// interpolation on the GPU.
package transform

// TileExtent is the number of tile-local coordinate units along one
// tile edge.
const TileExtent = 8192

// TileID identifies a tile together with its world wrap, so that
// copies of the antimeridian-crossing world project to distinct
// screen positions.
type TileID struct {
	Z    uint8
	X, Y uint32
	Wrap int32
}

// ElevationFn reports terrain elevation, in tile units, at a
// tile-local coordinate. A nil ElevationFn means sea level.
type ElevationFn func(x, y float64) float64

// Camera is the immutable per-frame camera snapshot shared by all
// transform variants. Bearing and Pitch are in radians.
type Camera struct {
	Width, Height          float64
	Pitch, Bearing         float64
	Zoom                   float64
	CameraToCenterDistance float64
}

// Projection is the result of projecting a tile coordinate.
// X and Y are normalized device coordinates in [-1, 1] for on-screen
// points; SignedDistanceFromCamera is the homogeneous w, negative for
// points behind the camera plane. IsOccluded reports that the point
// lies behind the visible hemisphere of the planet (always false for
// the flat transform).
type Projection struct {
	X, Y                     float64
	SignedDistanceFromCamera float64
	IsOccluded               bool
}

// Transform projects tile coordinates into normalized device
// coordinates for one frame. Implementations are immutable snapshots;
// a placement pass binds to exactly one.
type Transform interface {
	// Camera returns the frame's camera snapshot.
	Camera() Camera

	// ProjectTileCoordinates projects a tile-local coordinate.
	ProjectTileCoordinates(x, y float64, tile TileID, elevation ElevationFn) Projection

	// PitchedTextCorrection returns the scale correction applied to
	// map-pitched text at the given tile coordinate.
	PitchedTextCorrection(x, y float64, tile TileID) float64

	// sealed restricts the variant set to this package.
	sealed()
}

// worldCoordinate converts a tile-local coordinate to world
// coordinates at the camera zoom, in tile units.
func worldCoordinate(x, y float64, tile TileID, zoom float64) (float64, float64) {
	worldTiles := exp2(float64(tile.Z))
	scale := exp2(zoom - float64(tile.Z))
	wx := (x + TileExtent*(float64(tile.X)+float64(tile.Wrap)*worldTiles)) * scale
	wy := (y + TileExtent*float64(tile.Y)) * scale
	return wx, wy
}

// mercatorFraction converts a tile-local coordinate to world mercator
// fractions in [0, 1] (plus wrap).
func mercatorFraction(x, y float64, tile TileID) (float64, float64) {
	tiles := exp2(float64(tile.Z))
	mx := (float64(tile.X)+x/TileExtent)/tiles + float64(tile.Wrap)
	my := (float64(tile.Y) + y/TileExtent) / tiles
	return mx, my
}
