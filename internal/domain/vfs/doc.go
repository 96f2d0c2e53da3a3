// Package vfs projects the flat, parent-referencing node list of the virtual
// file system into a navigable tree.
//
// Storage is always the flat list; trees are rebuilt from it and never
// mutated in place. Projection is total: nodes whose parent is missing, whose
// parent chain loops back on itself, or whose parent is a file are left out
// rather than reported as errors.
//
// Sibling order after projection follows input order. Display order (folders
// first, then by name) is applied explicitly with SortChildren.
package vfs
