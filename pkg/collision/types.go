package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerda-ocm/collision/pkg/transform"
)

// OverlapMode controls whether a symbol's placement proceeds despite
// spatial conflicts.
type OverlapMode uint8

const (
	// OverlapCooperative is the default: placement is rejected when
	// the symbol conflicts with previously committed geometry.
	OverlapCooperative OverlapMode = iota

	// OverlapAlways skips the symbol's own hit-test, but the symbol is
	// still committed to the grid and still blocks later cooperative
	// symbols. The asymmetry is intended.
	OverlapAlways

	// OverlapIgnored routes the symbol to a separate grid that is
	// never hit-tested: it neither collides nor blocks, but remains
	// visible to QueryRenderedSymbols.
	OverlapIgnored
)

// String returns a human-readable name for the overlap mode.
func (m OverlapMode) String() string {
	switch m {
	case OverlapCooperative:
		return "cooperative"
	case OverlapAlways:
		return "always"
	case OverlapIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// FeatureKey resolves a grid entry back to its symbol, and for
// collision circles back to the individual circle and, for marker
// glyphs, the glyph itself. Keys are immutable once inserted.
type FeatureKey struct {
	BucketID     int
	FeatureIndex int
	GroupID      uint16
	Overlap      OverlapMode

	// CircleIndex is the circle's ordinal within its symbol, or -1
	// for box entries.
	CircleIndex int

	// GlyphIndex and GlyphChar identify the inline marker glyph a
	// circle was placed for. GlyphIndex is -1 for plain entries.
	GlyphIndex int
	GlyphChar  rune
}

// Point is a 2D viewport-space point.
type Point struct {
	X, Y float64
}

// Shift is a variable-anchor offset applied, in the box's basis,
// before the collision box is built.
type Shift struct {
	X, Y float64
}

// CollisionBox is a symbol's collision footprint: a tile-space anchor
// plus four edge offsets in pre-scale pixels.
type CollisionBox struct {
	AnchorX, AnchorY float64
	X1, Y1, X2, Y2   float64
	Overlap          OverlapMode
}

// PlacedBox is the decision record for one box placement. Box holds
// the padded screen-space rectangle (x1, y1, x2, y2) regardless of
// the outcome. Offscreen is reported independently of Placeable; the
// caller uses it to debounce fade-in.
type PlacedBox struct {
	Box       [4]float64
	Placeable bool
	Offscreen bool
	Occluded  bool
}

// Circle flags stored as the fourth element of each placed circle.
const (
	// CircleFlagNone marks an ordinary collision circle.
	CircleFlagNone = 0
	// CircleFlagCollided marks a circle that conflicted with the grid;
	// only produced when debug circles are requested.
	CircleFlagCollided = 1
	// CircleFlagGlyph marks a circle placed for an inline marker glyph.
	CircleFlagGlyph = 2
)

// GlyphCircle links a marker-glyph circle to its glyph identity.
type GlyphCircle struct {
	// CircleIndex is the circle's ordinal within the symbol's
	// Circles array (quad index, not element index).
	CircleIndex int
	// GlyphIndex is the glyph's position in the symbol's glyph array.
	GlyphIndex int
	// Char is the glyph's character code.
	Char rune
}

// PlacedCircles is the decision record for one line-following label:
// packed (centerX, centerY, radius, flag) quads in padded screen
// space, the marker-glyph subset, and the placement summary.
type PlacedCircles struct {
	Circles []float64
	Glyphs  []GlyphCircle

	Offscreen         bool
	CollisionDetected bool
	Occluded          bool
}

// Len returns the number of placed circles.
func (p PlacedCircles) Len() int {
	return len(p.Circles) / 4
}

// QueryMatch is one symbol hit returned by QueryRenderedSymbols.
// CircleIndex is -1 for box hits; GlyphIndex is -1 unless the hit
// circle was placed for an inline marker glyph.
type QueryMatch struct {
	FeatureIndex int
	CircleIndex  int
	GlyphIndex   int
	GlyphChar    rune
}

// BoxPlacement carries the inputs of one PlaceCollisionBox call.
type BoxPlacement struct {
	// Box is the symbol's collision footprint; its Overlap mode
	// drives the hit-test.
	Box CollisionBox

	// PixelRatio scales tile units to screen pixels at the symbol's
	// tile zoom.
	PixelRatio float64

	// Tile identifies the tile the box's anchor belongs to.
	Tile transform.TileID

	// PitchWithMap lays the box flat on the map plane;
	// RotateWithMap rotates it with the map bearing.
	PitchWithMap  bool
	RotateWithMap bool

	// Translation is the symbol translate, in tile units.
	Translation [2]float64

	// Predicate filters which committed entries may block this
	// symbol; nil considers all of them. Used for collision groups.
	Predicate func(FeatureKey) bool

	// Elevation optionally raises the anchor to terrain height.
	Elevation transform.ElevationFn

	// Shift is the variable-anchor offset, if any.
	Shift *Shift

	// SimpleMatrix, when set, projects the anchor directly through
	// this tile matrix instead of the transform. This fast path is
	// valid only for flat projections without elevation.
	SimpleMatrix *mgl64.Mat4
}

// LineSymbol describes one line-following label as produced by the
// layout pipeline.
type LineSymbol struct {
	// AnchorX, AnchorY is the label anchor in tile units.
	AnchorX, AnchorY float64

	// LineStartIndex and LineLength bound the symbol's vertex span
	// within the placement's Line array; SegmentIndex is the segment
	// the anchor lies on, relative to LineStartIndex.
	LineStartIndex int
	LineLength     int
	SegmentIndex   int

	// GlyphOffsets holds each glyph's offset along the line in text
	// units (ems scaled by the font size at layout time); GlyphChars
	// holds the parallel character codes.
	GlyphOffsets []float64
	GlyphChars   []rune

	// LineOffsetX and LineOffsetY shift glyphs along and off the
	// line, in label-plane units.
	LineOffsetX, LineOffsetY float64

	// Vertical marks vertical writing mode.
	Vertical bool
}

// CirclePlacement carries the inputs of one PlaceCollisionCircles
// call.
type CirclePlacement struct {
	Symbol LineSymbol

	// Line is the tile-space vertex array the symbol's span indexes
	// into.
	Line []Point

	// FontSize is the layout font size in pixels.
	FontSize float64

	// Overlap drives the per-circle hit-test.
	Overlap OverlapMode

	// LabelPlaneMatrix maps tile coordinates to the label plane:
	// viewport pixels when the text is viewport-aligned, tile-like
	// units when pitched with the map.
	LabelPlaneMatrix mgl64.Mat4

	// LabelToScreenMatrix converts label-plane points to screen
	// pixels; required (non-nil) when PitchWithMap is set.
	LabelToScreenMatrix *mgl64.Mat4

	// Tile identifies the symbol's tile.
	Tile transform.TileID

	// PitchWithMap lays the label on the map plane.
	PitchWithMap bool

	// KeepUpright requests upside-down labels to be flipped; labels
	// that are near-vertical on screen are refused instead.
	KeepUpright bool

	// ShowCircles keeps computing the full circle set after a
	// collision, for debug visualization.
	ShowCircles bool

	// CircleDiameter is the collision circle diameter in pixels.
	CircleDiameter float64

	// Padding widens each circle by a fixed pixel amount.
	Padding float64

	// Translation is the symbol translate, in tile units.
	Translation [2]float64

	// Predicate filters blocking entries, as in BoxPlacement.
	Predicate func(FeatureKey) bool

	// Elevation optionally raises the anchor to terrain height.
	Elevation transform.ElevationFn
}

// IsMarkerGlyph reports whether a character is one of the inline
// color-marker glyphs that receive their own flagged collision
// circle. Markers occupy a small Private Use Area range.
func IsMarkerGlyph(ch rune) bool {
	return ch >= 0xE000 && ch <= 0xE00F
}
