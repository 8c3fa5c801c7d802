package model

// GlossaryTerm is a single glossary search hit.
type GlossaryTerm struct {
	Term        string `json:"term"`
	Description string `json:"description"`
	BookName    string `json:"book_name"`
}
