package projection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerda-ocm/collision/internal/geom"
)

// TestProject tests matrix projection with perspective divide
func TestProject(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 0)
	got := Project(geom.Point{X: 3, Y: 4}, m)
	if got != (geom.Point{X: 4, Y: 6}) {
		t.Errorf("Project = %v, want (4,6)", got)
	}

	// Perspective divide: w = 2 halves the coordinates.
	m = mgl64.Ident4()
	m[15] = 2
	got, dist := ProjectWithDistance(geom.Point{X: 3, Y: 4}, m)
	if got != (geom.Point{X: 1.5, Y: 2}) {
		t.Errorf("ProjectWithDistance point = %v, want (1.5,2)", got)
	}
	if dist != 2 {
		t.Errorf("ProjectWithDistance dist = %v, want 2", dist)
	}
}

// TestContextVertex tests per-vertex projection memoization
func TestContextVertex(t *testing.T) {
	line := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	ctx := NewContext(line, mgl64.Translate3D(5, 0, 0))

	if got := ctx.Vertex(1); got != (geom.Point{X: 15, Y: 0}) {
		t.Errorf("Vertex(1) = %v, want (15,0)", got)
	}
	if got := ctx.Vertex(1); got != (geom.Point{X: 15, Y: 0}) {
		t.Errorf("Cached Vertex(1) = %v, want (15,0)", got)
	}
}

func straightLineContext() *Context {
	line := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}
	return NewContext(line, mgl64.Ident4())
}

// TestPlaceGlyphAlongLine tests walking offsets along a line
func TestPlaceGlyphAlongLine(t *testing.T) {
	anchor := geom.Point{X: 15, Y: 0}

	t.Run("forward", func(t *testing.T) {
		g, ok := PlaceGlyphAlongLine(straightLineContext(), 8, 0, 0, false, anchor, 0, 4, 1)
		if !ok {
			t.Fatal("Expected placement to succeed")
		}
		if g.Point != (geom.Point{X: 23, Y: 0}) {
			t.Errorf("Point = %v, want (23,0)", g.Point)
		}
		if g.Angle != 0 {
			t.Errorf("Angle = %v, want 0", g.Angle)
		}
		want := []geom.Point{{X: 15, Y: 0}, {X: 20, Y: 0}, {X: 23, Y: 0}}
		if len(g.Path) != len(want) {
			t.Fatalf("Path length = %d, want %d", len(g.Path), len(want))
		}
		for i := range want {
			if g.Path[i] != want[i] {
				t.Errorf("Path[%d] = %v, want %v", i, g.Path[i], want[i])
			}
		}
	})

	t.Run("backward", func(t *testing.T) {
		g, ok := PlaceGlyphAlongLine(straightLineContext(), -8, 0, 0, false, anchor, 0, 4, 1)
		if !ok {
			t.Fatal("Expected placement to succeed")
		}
		if g.Point != (geom.Point{X: 7, Y: 0}) {
			t.Errorf("Point = %v, want (7,0)", g.Point)
		}
	})

	t.Run("flip reverses direction", func(t *testing.T) {
		g, ok := PlaceGlyphAlongLine(straightLineContext(), 8, 0, 0, true, anchor, 0, 4, 1)
		if !ok {
			t.Fatal("Expected placement to succeed")
		}
		if g.Point != (geom.Point{X: 7, Y: 0}) {
			t.Errorf("Point = %v, want (7,0)", g.Point)
		}
	})

	t.Run("perpendicular offset", func(t *testing.T) {
		g, ok := PlaceGlyphAlongLine(straightLineContext(), 8, 0, 2, false, anchor, 0, 4, 1)
		if !ok {
			t.Fatal("Expected placement to succeed")
		}
		if math.Abs(g.Point.X-23) > 1e-12 || math.Abs(g.Point.Y-2) > 1e-12 {
			t.Errorf("Point = %v, want (23,2)", g.Point)
		}
	})

	t.Run("offset runs off the line", func(t *testing.T) {
		if _, ok := PlaceGlyphAlongLine(straightLineContext(), 40, 0, 0, false, anchor, 0, 4, 1); ok {
			t.Error("Expected placement to fail past the line end")
		}
		if _, ok := PlaceGlyphAlongLine(straightLineContext(), -40, 0, 0, false, anchor, 0, 4, 1); ok {
			t.Error("Expected placement to fail past the line start")
		}
	})
}

// TestFirstAndLastGlyph tests that both edge glyphs must fit
func TestFirstAndLastGlyph(t *testing.T) {
	anchor := geom.Point{X: 15, Y: 0}

	first, last, ok := FirstAndLastGlyph(straightLineContext(), 1, []float64{-8, 0, 8}, 0, 0, false, anchor, 0, 4, 1)
	if !ok {
		t.Fatal("Expected placement to succeed")
	}
	if first.Point != (geom.Point{X: 7, Y: 0}) {
		t.Errorf("First = %v, want (7,0)", first.Point)
	}
	if last.Point != (geom.Point{X: 23, Y: 0}) {
		t.Errorf("Last = %v, want (23,0)", last.Point)
	}

	// Font scale doubles the offsets; the last glyph now runs off.
	if _, _, ok := FirstAndLastGlyph(straightLineContext(), 4, []float64{-8, 0, 8}, 0, 0, false, anchor, 0, 4, 1); ok {
		t.Error("Expected placement to fail when an edge glyph does not fit")
	}

	if _, _, ok := FirstAndLastGlyph(straightLineContext(), 1, nil, 0, 0, false, anchor, 0, 4, 1); ok {
		t.Error("Expected placement to fail with no glyph offsets")
	}
}
