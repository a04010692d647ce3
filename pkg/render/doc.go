// Package render groups the visualizations codexray can draw. The only one
// today is the nested treemap in [treemap]:
//
//   - [treemap/layout] places a box for every node with a non-zero value.
//   - [treemap/paint] draws the boxes, labels and shadows onto a canvas and
//     records the hit rectangle of every painted node.
//   - [treemap/sink] encodes the canvas as PNG, JPEG or SVG, or exports the
//     geometry as JSON.
//   - [treemap/hit] maps a point, possibly on a scaled display, back to the
//     node under it.
package render
