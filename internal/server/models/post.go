package models

import "time"

// labelLength is how many characters of the text a post label shows.
const labelLength = 15

// Post is a publication by a single author, optionally filed under a group.
//
// GroupID is nil when the post has no group (including after its group was
// deleted). Image holds the storage key of the attached picture, or "".
// Author and Group are populated by queries that join them.
type Post struct {
	ID       int64
	Text     string
	PubDate  time.Time
	AuthorID int64
	GroupID  *int64
	Image    string

	Author *User
	Group  *Group
}

// String returns the first characters of the text, counted in runes.
func (p *Post) String() string {
	r := []rune(p.Text)
	if len(r) <= labelLength {
		return p.Text
	}
	return string(r[:labelLength])
}

// HasImage reports whether a picture is attached.
func (p *Post) HasImage() bool {
	return p.Image != ""
}
