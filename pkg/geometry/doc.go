// Package geometry converts part placement rectangles into resolution-independent
// percentages.
//
// Catalog authors may give a rectangle in absolute pixels measured against a
// fixed reference canvas of [RefWidth] x [RefHeight]. [Normalize] rewrites every
// pixel value as a percentage of that canvas so layers from different parts line
// up no matter how large the rendering surface is:
//
//	r := geometry.Normalize(geometry.Rect{Top: "65px", Left: "42.5px", Width: "80%"})
//	// r.Top == "10.000%", r.Left == "5.000%", r.Width == "80%"
//
// Horizontal fields (left, width) use the reference width, vertical fields
// (top, height) the reference height. Normalize is idempotent.
package geometry
