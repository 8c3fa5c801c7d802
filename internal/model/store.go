package model

// Collection is the persisted list of bookmarks, in insertion order.
type Collection []Bookmark

// FindByID finds a bookmark by ID, returns nil if not found.
func (c Collection) FindByID(id string) *Bookmark {
	if i := c.IndexOfID(id); i >= 0 {
		return &c[i]
	}
	return nil
}

// FindByTarget finds the bookmark for a book page, returns nil if not found.
func (c Collection) FindByTarget(bookID BookID, page int) *Bookmark {
	if i := c.IndexOfTarget(bookID, page); i >= 0 {
		return &c[i]
	}
	return nil
}

// IndexOfID returns the index of the bookmark with the given ID, or -1.
func (c Collection) IndexOfID(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexOfTarget returns the index of the bookmark for a book page, or -1.
func (c Collection) IndexOfTarget(bookID BookID, page int) int {
	for i := range c {
		if c[i].SameTarget(bookID, page) {
			return i
		}
	}
	return -1
}

// ForBook returns bookmarks belonging to one book, preserving order.
func (c Collection) ForBook(bookID BookID) Collection {
	result := Collection{}
	for _, b := range c {
		if b.BookID.Equal(bookID) {
			result = append(result, b)
		}
	}
	return result
}

// Without returns a copy of the collection minus the bookmark with the given ID.
func (c Collection) Without(id string) Collection {
	result := make(Collection, 0, len(c))
	for _, b := range c {
		if b.ID != id {
			result = append(result, b)
		}
	}
	return result
}
