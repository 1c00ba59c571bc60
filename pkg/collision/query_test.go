package collision

import "testing"

func queryRect(x1, y1, x2, y2 float64) []Point {
	return []Point{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}}
}

// TestQueryRoundTrip tests that an inserted glyph circle resolves back
// to its feature and glyph identity
func TestQueryRoundTrip(t *testing.T) {
	ci := testIndex()
	ci.InsertCollisionCircles(
		[]float64{107, 107, 8, CircleFlagGlyph},
		OverlapCooperative, 1, 5, 0,
		[]GlyphCircle{{CircleIndex: 0, GlyphIndex: 3, Char: 'w'}},
	)

	// Query polygon in viewport coordinates; the circle sits at padded
	// (107,107), viewport (7,7).
	result := ci.QueryRenderedSymbols(queryRect(0, 0, 14, 14))
	matches, ok := result[1]
	if !ok || len(matches) != 1 {
		t.Fatalf("Expected 1 match in bucket 1, got %v", result)
	}
	want := QueryMatch{FeatureIndex: 5, CircleIndex: 0, GlyphIndex: 3, GlyphChar: 'w'}
	if matches[0] != want {
		t.Errorf("Match = %+v, want %+v", matches[0], want)
	}
}

// TestQueryBoxDeduplication tests that multiple boxes of one feature
// report a single match
func TestQueryBoxDeduplication(t *testing.T) {
	ci := testIndex()
	ci.InsertCollisionBox([4]float64{110, 110, 130, 130}, OverlapCooperative, 2, 9, 0)
	ci.InsertCollisionBox([4]float64{125, 110, 145, 130}, OverlapCooperative, 2, 9, 0)

	result := ci.QueryRenderedSymbols(queryRect(0, 0, 60, 60))
	matches := result[2]
	if len(matches) != 1 {
		t.Fatalf("Expected 1 deduplicated match, got %d", len(matches))
	}
	if matches[0].CircleIndex != -1 {
		t.Errorf("CircleIndex = %d, want -1 for a box hit", matches[0].CircleIndex)
	}
	if matches[0].GlyphIndex != -1 {
		t.Errorf("GlyphIndex = %d, want -1 for a plain hit", matches[0].GlyphIndex)
	}
}

// TestQueryDistinctCircles tests that separate circles of one feature
// report separate matches
func TestQueryDistinctCircles(t *testing.T) {
	ci := testIndex()
	ci.InsertCollisionCircles(
		[]float64{
			110, 110, 5, CircleFlagNone,
			140, 110, 5, CircleFlagNone,
		},
		OverlapCooperative, 3, 2, 0, nil,
	)

	result := ci.QueryRenderedSymbols(queryRect(0, 0, 60, 60))
	matches := result[3]
	if len(matches) != 2 {
		t.Fatalf("Expected 2 circle matches, got %d", len(matches))
	}
	indices := map[int]bool{matches[0].CircleIndex: true, matches[1].CircleIndex: true}
	if !indices[0] || !indices[1] {
		t.Errorf("Expected circle indices 0 and 1, got %v", indices)
	}
}

// TestQueryIgnoredGrid tests that query-only symbols are hit-testable
// without blocking placement
func TestQueryIgnoredGrid(t *testing.T) {
	ci := testIndex()
	ci.InsertCollisionBox([4]float64{190, 195, 210, 205}, OverlapIgnored, 4, 0, 0)

	result := ci.QueryRenderedSymbols(queryRect(80, 80, 120, 120))
	if len(result[4]) != 1 {
		t.Fatalf("Expected the ignored symbol to be queryable, got %v", result)
	}

	if !ci.PlaceCollisionBox(BoxPlacement{Box: centeredBox(OverlapCooperative), PixelRatio: 1}).Placeable {
		t.Error("Expected ignored geometry not to block placement")
	}
}

// TestQueryMisses tests polygons that should match nothing
func TestQueryMisses(t *testing.T) {
	ci := testIndex()
	ci.InsertCollisionBox([4]float64{110, 110, 130, 130}, OverlapCooperative, 1, 0, 0)

	if got := ci.QueryRenderedSymbols(nil); len(got) != 0 {
		t.Errorf("Expected empty result for empty polygon, got %v", got)
	}
	if got := ci.QueryRenderedSymbols(queryRect(100, 100, 140, 140)); len(got) != 0 {
		t.Errorf("Expected empty result away from the box, got %v", got)
	}
}

// TestQueryEmptyIndex tests querying before anything is committed
func TestQueryEmptyIndex(t *testing.T) {
	ci := testIndex()
	if got := ci.QueryRenderedSymbols(queryRect(0, 0, 200, 200)); len(got) != 0 {
		t.Errorf("Expected empty result on an empty index, got %v", got)
	}
}
