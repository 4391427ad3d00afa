package models

// Group is a community posts can be filed under. Groups are administered
// out of band; Slug is unique and used in URLs.
type Group struct {
	ID          int64
	Slug        string
	Title       string
	Description string
}

func (g *Group) String() string {
	return g.Title
}
