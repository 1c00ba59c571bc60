package transform

// Transition blends the flat and spherical transforms during a
// projection-style transition. Projected points and camera distances
// are the per-axis linear interpolation of the two pure modes, which
// must match the vertex interpolation performed on the GPU; anything
// else makes collision geometry diverge from rendered glyphs.
// Occlusion takes the spherical answer, the conservative choice.
type Transition struct {
	flat   *Mercator
	globe  *Globe
	weight float64 // 0 = fully flat, 1 = fully spherical
}

// NewTransition creates a blended transform. weight is clamped to
// [0, 1]; the endpoints degenerate to the pure modes.
func NewTransition(flat *Mercator, globe *Globe, weight float64) *Transition {
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}
	return &Transition{flat: flat, globe: globe, weight: weight}
}

// Camera returns the frame's camera snapshot (shared by both modes).
func (t *Transition) Camera() Camera { return t.flat.Camera() }

// Weight returns the blend weight.
func (t *Transition) Weight() float64 { return t.weight }

// ProjectTileCoordinates projects through both pure modes and
// interpolates each axis by the blend weight.
func (t *Transition) ProjectTileCoordinates(x, y float64, tile TileID, elevation ElevationFn) Projection {
	a := t.flat.ProjectTileCoordinates(x, y, tile, elevation)
	b := t.globe.ProjectTileCoordinates(x, y, tile, elevation)
	return Projection{
		X:                        lerp(a.X, b.X, t.weight),
		Y:                        lerp(a.Y, b.Y, t.weight),
		SignedDistanceFromCamera: lerp(a.SignedDistanceFromCamera, b.SignedDistanceFromCamera, t.weight),
		IsOccluded:               b.IsOccluded,
	}
}

// PitchedTextCorrection interpolates the pure-mode corrections.
func (t *Transition) PitchedTextCorrection(x, y float64, tile TileID) float64 {
	return lerp(t.flat.PitchedTextCorrection(x, y, tile), t.globe.PitchedTextCorrection(x, y, tile), t.weight)
}

func (t *Transition) sealed() {}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
