package vfs

import (
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Projection is the result of projecting a flat node list
type Projection struct {
	Roots []*types.TreeNode
	// Omitted lists, in input order, the ids of nodes that are not part of
	// the tree: dangling or cyclic parents, children of files, duplicate ids.
	Omitted []string
}

// Project builds the forest reachable from the sentinel root.
// It never fails and never loops, whatever the input.
func Project(nodes []types.Node) []*types.TreeNode {
	return ProjectDetailed(nodes).Roots
}

// ProjectDetailed is Project plus the ids that were left out
func ProjectDetailed(nodes []types.Node) Projection {
	p := &projector{
		nodes:    nodes,
		children: make(map[string][]int, len(nodes)),
		placed:   make([]bool, len(nodes)),
		visited:  make(map[string]bool, len(nodes)),
	}

	var roots []int
	for i, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		p.children[*n.ParentID] = append(p.children[*n.ParentID], i)
	}

	out := Projection{Roots: p.build(roots)}
	for i, n := range nodes {
		if !p.placed[i] {
			out.Omitted = append(out.Omitted, n.ID)
		}
	}
	return out
}

type projector struct {
	nodes    []types.Node
	children map[string][]int // parent id -> indices, input order
	placed   []bool
	visited  map[string]bool
}

// build projects the nodes at indices. An id that was already visited is
// not entered again, which cuts cycles and duplicate ids.
func (p *projector) build(indices []int) []*types.TreeNode {
	out := make([]*types.TreeNode, 0, len(indices))
	for _, i := range indices {
		n := p.nodes[i]
		if p.visited[n.ID] {
			continue
		}
		p.visited[n.ID] = true
		p.placed[i] = true

		tn := &types.TreeNode{Node: n}
		if n.IsFolder() {
			tn.Children = p.build(p.children[n.ID])
		}
		out = append(out, tn)
	}
	return out
}

// Walk visits every projected node depth-first, parents before children.
// Returning false from fn skips that node's children.
func Walk(roots []*types.TreeNode, fn func(node *types.TreeNode, depth int) bool) {
	var walk func(nodes []*types.TreeNode, depth int)
	walk = func(nodes []*types.TreeNode, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
}
