// Package collision decides whether map symbols (text labels and
// icons) may be drawn without unacceptable overlap with
// higher-priority symbols already placed, under camera pitch and
// rotation, perspective foreshortening, spherical-planet occlusion,
// and line-following text layout.
//
// An Index is created per placement pass from one immutable
// transform snapshot. Symbols are submitted in priority order:
// placement is a greedy, first-come packing, so reordering changes
// outcomes. Each symbol is first tested (PlaceCollisionBox
// or PlaceCollisionCircles), then committed (InsertCollisionBox or
// InsertCollisionCircles) if the caller decides to draw it. Committed
// geometry is what later symbols collide against, and what
// QueryRenderedSymbols resolves hits against.
//
// Example:
//
//	tr := transform.NewMercator(cam, viewProjection)
//	idx := collision.New(tr)
//
//	placed := idx.PlaceCollisionBox(collision.BoxPlacement{
//	    Box:        box,
//	    PixelRatio: 1,
//	    Tile:       tile,
//	})
//	if placed.Placeable {
//	    idx.InsertCollisionBox(placed.Box, box.Overlap, bucketID, featureIndex, groupID)
//	}
//
// All coordinates handed back by the Index are viewport pixels offset
// by the viewport padding; ViewportMatrix returns the transform that
// undoes the padding for debug rendering.
package collision
