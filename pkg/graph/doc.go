// Package graph defines the serialization formats shared by every stage of
// the modelviz pipeline.
//
// Two formats live here:
//
//   - Graph: the derived node/edge set produced by pkg/derive, before any
//     positions exist. It round-trips through JSON and BSON and converts to
//     and from the pkg/tree container.
//   - Layout: the positioned box set produced by pkg/layout, which renderers
//     consume directly.
//
// Node and edge order is significant in both formats. It encodes sibling
// order, which the layout engine turns into left-to-right placement.
package graph
