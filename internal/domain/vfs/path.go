package vfs

import (
	"slices"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Breadcrumb returns the ancestry of id from its top-level folder down to the
// node itself. It reports false when id is unknown or not reachable from the
// root (dangling or cyclic parent chain).
func Breadcrumb(nodes []types.Node, id string) ([]types.Node, bool) {
	byID := make(map[string]types.Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = n
		}
	}

	current, ok := byID[id]
	if !ok {
		return nil, false
	}

	seen := map[string]bool{}
	var chain []types.Node
	for {
		if seen[current.ID] {
			return nil, false
		}
		seen[current.ID] = true
		chain = append(chain, current)

		if current.ParentID == nil {
			break
		}
		parent, ok := byID[*current.ParentID]
		if !ok || !parent.IsFolder() {
			return nil, false
		}
		current = parent
	}

	slices.Reverse(chain)
	return chain, true
}
