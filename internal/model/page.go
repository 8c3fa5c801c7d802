package model

// Page maps a sequential page number to its printed label ("xxvii", "A-3", "12").
type Page struct {
	Number int    `json:"page_number"`
	Label  string `json:"page_label"`
}

// TOCEntry is one row of the flat table of contents returned by the API.
type TOCEntry struct {
	ID         int    `json:"toc_id"`
	ParentID   *int   `json:"parent_toc_id"` // nil = root
	Label      string `json:"toc_label"`
	PageNumber *int   `json:"page_number"` // nil = heading without a target page
}

// TOCNode is a TOCEntry placed in the tree.
type TOCNode struct {
	TOCEntry
	Children []*TOCNode `json:"children"`
}

// HasChildren returns true if the node has at least one child.
func (n *TOCNode) HasChildren() bool {
	return len(n.Children) > 0
}
