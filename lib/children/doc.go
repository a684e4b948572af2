// Package children implements the adaptive index that holds the children of
// a tree node.
//
// Small child sets live in a sorted slice, medium ones in a Go map and very
// large ones in a syncmap.Map. The thresholds use hysteresis so that a node
// hovering around a boundary does not convert on every change. SortedChildren
// lists names after a given child in ordinal order in every tier; only the
// sorted tier answers it without sorting.
package children
