package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

var (
	_ Transform = (*Mercator)(nil)
	_ Transform = (*Globe)(nil)
	_ Transform = (*Transition)(nil)
)

func testCamera() Camera {
	return Camera{Width: 200, Height: 200, Zoom: 0, CameraToCenterDistance: 1}
}

// TestMercatorWorldCoordinates tests tile-to-world scaling through an
// identity camera matrix
func TestMercatorWorldCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		zoom  float64
		tile  TileID
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"root tile identity", 0, TileID{}, 4096, 2048, 4096, 2048},
		{"child tile offset", 2, TileID{Z: 1, X: 1, Y: 0}, 4096, 8192, 24576, 16384},
		{"world wrap", 2, TileID{Z: 1, X: 0, Y: 0, Wrap: 1}, 0, 0, 32768, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := testCamera()
			cam.Zoom = tt.zoom
			tr := NewMercator(cam, mgl64.Ident4())

			p := tr.ProjectTileCoordinates(tt.x, tt.y, tt.tile, nil)
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("Projected (%v,%v), want (%v,%v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
			if p.SignedDistanceFromCamera != 1 {
				t.Errorf("SignedDistance = %v, want 1", p.SignedDistanceFromCamera)
			}
			if p.IsOccluded {
				t.Error("Flat projection must never report occlusion")
			}
		})
	}
}

// TestMercatorElevation tests that terrain elevation feeds the matrix z
func TestMercatorElevation(t *testing.T) {
	// Matrix adds z into x, so elevation becomes visible in the output.
	m := mgl64.Ident4()
	m[8] = 1
	tr := NewMercator(testCamera(), m)

	flat := tr.ProjectTileCoordinates(100, 0, TileID{}, nil)
	raised := tr.ProjectTileCoordinates(100, 0, TileID{}, func(x, y float64) float64 { return 5 })

	if raised.X-flat.X != 5 {
		t.Errorf("Elevation offset = %v, want 5", raised.X-flat.X)
	}
}

// TestGlobeProjection tests sphere positions and horizon occlusion
func TestGlobeProjection(t *testing.T) {
	tr := NewGlobe(testCamera(), mgl64.Ident4(), r3.Vector{Z: 2})

	// Mercator center sits at longitude 0 on the near side.
	p := tr.ProjectTileCoordinates(4096, 4096, TileID{}, nil)
	if math.Abs(p.X) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Errorf("Center projected to (%v,%v), want origin", p.X, p.Y)
	}
	if p.IsOccluded {
		t.Error("Center must be visible")
	}

	tests := []struct {
		name     string
		x        float64
		occluded bool
	}{
		{"longitude 0", 4096, false},
		{"longitude 45", 5120, false},
		{"longitude 90", 6144, true},
		{"longitude 180", 8192, true},
		{"longitude -180", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tr.ProjectTileCoordinates(tt.x, 4096, TileID{}, nil)
			if p.IsOccluded != tt.occluded {
				t.Errorf("IsOccluded = %v, want %v", p.IsOccluded, tt.occluded)
			}
		})
	}
}

// TestPitchedTextCorrection tests the latitude-dependent scale
// correction of each transform variant
func TestPitchedTextCorrection(t *testing.T) {
	flat := NewMercator(testCamera(), mgl64.Ident4())
	globe := NewGlobe(testCamera(), mgl64.Ident4(), r3.Vector{Z: 2})

	if got := flat.PitchedTextCorrection(4096, 2048, TileID{}); got != 1 {
		t.Errorf("Flat correction = %v, want 1", got)
	}
	if got := globe.PitchedTextCorrection(4096, 4096, TileID{}); math.Abs(got-1) > 1e-12 {
		t.Errorf("Globe correction at equator = %v, want 1", got)
	}
	if got := globe.PitchedTextCorrection(4096, 2048, TileID{}); math.Abs(got-0.3985368) > 1e-6 {
		t.Errorf("Globe correction at 66.5N = %v, want 0.3985368", got)
	}

	blend := NewTransition(flat, globe, 0.5)
	if got := blend.PitchedTextCorrection(4096, 2048, TileID{}); math.Abs(got-0.6992684) > 1e-6 {
		t.Errorf("Blended correction = %v, want 0.6992684", got)
	}
}

// TestTransitionBlending tests per-axis interpolation between modes
func TestTransitionBlending(t *testing.T) {
	flat := NewMercator(testCamera(), mgl64.Ident4())
	globe := NewGlobe(testCamera(), mgl64.Ident4(), r3.Vector{Z: 2})
	blend := NewTransition(flat, globe, 0.5)

	a := flat.ProjectTileCoordinates(4096, 4096, TileID{}, nil)
	b := globe.ProjectTileCoordinates(4096, 4096, TileID{}, nil)
	p := blend.ProjectTileCoordinates(4096, 4096, TileID{}, nil)

	if math.Abs(p.X-(a.X+b.X)/2) > 1e-12 {
		t.Errorf("Blended X = %v, want %v", p.X, (a.X+b.X)/2)
	}
	if math.Abs(p.Y-(a.Y+b.Y)/2) > 1e-12 {
		t.Errorf("Blended Y = %v, want %v", p.Y, (a.Y+b.Y)/2)
	}
	wantDist := (a.SignedDistanceFromCamera + b.SignedDistanceFromCamera) / 2
	if math.Abs(p.SignedDistanceFromCamera-wantDist) > 1e-12 {
		t.Errorf("Blended distance = %v, want %v", p.SignedDistanceFromCamera, wantDist)
	}
}

// TestTransitionOcclusion tests that occlusion follows the spherical
// mode regardless of weight
func TestTransitionOcclusion(t *testing.T) {
	flat := NewMercator(testCamera(), mgl64.Ident4())
	globe := NewGlobe(testCamera(), mgl64.Ident4(), r3.Vector{Z: 2})
	blend := NewTransition(flat, globe, 0.1)

	if p := blend.ProjectTileCoordinates(0, 4096, TileID{}, nil); !p.IsOccluded {
		t.Error("Expected far-side point to be occluded during transition")
	}
	if p := blend.ProjectTileCoordinates(4096, 4096, TileID{}, nil); p.IsOccluded {
		t.Error("Expected near-side point to be visible during transition")
	}
}

// TestTransitionWeightClamping tests the weight bounds
func TestTransitionWeightClamping(t *testing.T) {
	flat := NewMercator(testCamera(), mgl64.Ident4())
	globe := NewGlobe(testCamera(), mgl64.Ident4(), r3.Vector{Z: 2})

	if got := NewTransition(flat, globe, 1.5).Weight(); got != 1 {
		t.Errorf("Weight = %v, want 1", got)
	}
	if got := NewTransition(flat, globe, -0.5).Weight(); got != 0 {
		t.Errorf("Weight = %v, want 0", got)
	}
	if got := NewTransition(flat, globe, 0.25).Weight(); got != 0.25 {
		t.Errorf("Weight = %v, want 0.25", got)
	}
}
