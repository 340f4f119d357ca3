// Package derive turns nested compliance documents into typed node/edge
// trees for layout and rendering.
//
// The derived shape is intentionally shallow: one synthetic root, one field
// node per top-level key, and one category node per sub-key of the reserved
// collections field (default "elements"). Everything below that depth is
// summarized into the node's preview label instead of being expanded.
//
// Parsing and derivation are split so callers that already hold a parsed
// Value (e.g. the HTTP API) can skip re-parsing:
//
//	doc, err := derive.ParseDocument(data)
//	t, err := derive.Derive(doc, derive.Options{})
package derive
