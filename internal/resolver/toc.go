package resolver

import "github.com/nikbrunner/pbb/internal/model"

// BuildTOCTree turns a flat TOC listing into a forest. Entries without a
// parent are roots; entries whose parent is not in the listing are
// dropped. Children keep the listing's order.
func BuildTOCTree(entries []model.TOCEntry) []*model.TOCNode {
	nodes := make(map[int]*model.TOCNode, len(entries))
	for _, e := range entries {
		if _, dup := nodes[e.ID]; dup {
			continue
		}
		nodes[e.ID] = &model.TOCNode{TOCEntry: e, Children: []*model.TOCNode{}}
	}

	roots := []*model.TOCNode{}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true

		node := nodes[e.ID]
		if e.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*e.ParentID]; ok && parent != node {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

// TOCRow is one visible line of a flattened TOC.
type TOCRow struct {
	Node  *model.TOCNode
	Depth int
}

// FlattenTOC walks roots depth-first, descending only into nodes whose
// toc_id is marked in expanded.
func FlattenTOC(roots []*model.TOCNode, expanded map[int]bool) []TOCRow {
	var rows []TOCRow
	var walk func(nodes []*model.TOCNode, depth int)
	walk = func(nodes []*model.TOCNode, depth int) {
		for _, n := range nodes {
			rows = append(rows, TOCRow{Node: n, Depth: depth})
			if n.HasChildren() && expanded[n.ID] {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
	return rows
}
