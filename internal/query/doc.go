// Package query derives filtered, searched, and sorted views over a snapshot
// of saved items.
//
// Everything here is a pure, synchronous transformation: callers list items
// from the clip store and hand the snapshot to Apply together with the
// criteria the user currently wants. The package also derives the distinct
// domain list used to populate filter selectors and the aggregate counts shown
// by the overview surface.
package query
