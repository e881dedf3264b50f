// Package sink turns a computed [scheme.Scene] into output bytes.
//
// [RenderSVG] draws the kinematic scheme with svgo: every symbol is painted
// from its local marks pushed through its placement transform, followed by
// bearings, callouts and, on request, the overlap and selection overlays.
// [RenderJSON] emits a flat description of the same scene for renderers
// written elsewhere.
//
// svgo works in integer user units, so coordinates are scaled by [Unit]
// and the viewBox maps them back onto the canvas size.
package sink
