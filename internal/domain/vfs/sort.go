package vfs

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// SortChildren orders every sibling list of the forest for display: folders
// before files, then by name in locale order. It sorts in place and is a
// separate step from projection.
func SortChildren(roots []*types.TreeNode) {
	c := collate.New(language.Und)
	sortLevel(c, roots)
}

func sortLevel(c *collate.Collator, nodes []*types.TreeNode) {
	slices.SortStableFunc(nodes, func(a, b *types.TreeNode) int {
		if a.IsFolder() != b.IsFolder() {
			if a.IsFolder() {
				return -1
			}
			return 1
		}
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.ID, b.ID)
	})
	for _, n := range nodes {
		sortLevel(c, n.Children)
	}
}
