package domain

// Category is a node of the category tree. The parent relation is a
// back-reference by id.
type Category struct {
	ID       int64   `json:"id" validate:"gt=0"`
	ParentID *int64  `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	Label    string  `json:"label" validate:"required"`
	Slug     string  `json:"slug" validate:"required"`
	HasChild bool    `json:"hasChild"`
	URL      string  `json:"url"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// IsRoot reports whether the category sits at the top of the tree
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsChildOf reports whether the category's parent is parentID
func (c Category) IsChildOf(parentID int64) bool {
	return c.ParentID != nil && *c.ParentID == parentID
}
