// Package layout assigns 2-D positions to tree-shaped node/edge sets.
//
// The algorithm is a classic tidy-tree placement: subtree widths accumulate
// bottom-up, leaves are placed left to right at a running cursor, parents
// are centered over the span their descendants consumed, and the finished
// tree is re-centered so its bounding box straddles x = 0. Sibling order is
// edge insertion order and is never resorted.
//
// All traversals use explicit stacks over an index-addressed node table, so
// arbitrarily deep trees cannot exhaust the goroutine stack. Each Build call
// is pure and stateless: same tree plus same config always yields the same
// positions, and nothing is cached between calls.
package layout
