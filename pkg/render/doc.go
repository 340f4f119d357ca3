// Package render turns positioned layouts into visual output.
//
// Two render paths exist:
//
//   - [SVG] draws the layout engine's exact box positions as a standalone
//     SVG document. This is the primary path; what you see is what the
//     layout computed.
//   - [ToDOT] plus [DOTToSVG] hand the tree to Graphviz and let it place
//     nodes itself. Useful as an independent visual cross-check.
//
// Both paths are pure functions over their input; neither touches the
// filesystem.
package render
